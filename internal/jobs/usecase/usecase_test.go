package usecase

import (
	"context"
	"testing"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobRepo struct {
	jobs.Repository
	job *models.Job
}

func (s *stubJobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	if s.job == nil {
		return nil, errors.New("not found")
	}
	out := *s.job
	return &out, nil
}

type stubRedisRepo struct {
	jobs.RedisRepository
	state *jobs.CachedState
}

func (s *stubRedisRepo) GetState(ctx context.Context, jobID string) (*jobs.CachedState, error) {
	if s.state == nil {
		return nil, redis.Nil
	}
	return s.state, nil
}

func testLogger() logger.Logger {
	log := logger.NewApiLogger(&config.Config{Logger: config.Logger{Level: "error"}})
	log.InitLogger()
	return log
}

func TestGetJobOverlaysFresherProgress(t *testing.T) {
	t.Parallel()

	job := &models.Job{JobID: uuid.New(), Status: models.JobStatusStarted, Progress: 20}
	uc := NewJobsUseCase(
		&config.Config{},
		&stubJobRepo{job: job},
		&stubRedisRepo{state: &jobs.CachedState{Status: models.JobStatusStarted, Progress: 70}},
		testLogger(),
	)

	got, err := uc.GetJob(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, 70, got.Progress)
}

func TestGetJobTerminalRowIsAuthoritative(t *testing.T) {
	t.Parallel()

	job := &models.Job{JobID: uuid.New(), Status: models.JobStatusSuccess, Progress: 100}
	uc := NewJobsUseCase(
		&config.Config{},
		&stubJobRepo{job: job},
		&stubRedisRepo{state: &jobs.CachedState{Status: models.JobStatusStarted, Progress: 10}},
		testLogger(),
	)

	got, err := uc.GetJob(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusSuccess, got.Status)
	assert.Equal(t, 100, got.Progress)
}

func TestGetJobRedisMissFallsBack(t *testing.T) {
	t.Parallel()

	job := &models.Job{JobID: uuid.New(), Status: models.JobStatusStarted, Progress: 35}
	uc := NewJobsUseCase(&config.Config{}, &stubJobRepo{job: job}, &stubRedisRepo{}, testLogger())

	got, err := uc.GetJob(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, 35, got.Progress)
}
