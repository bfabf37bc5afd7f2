package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*jobRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return &jobRepo{db: sqlxDB}, mock
}

func jobColumns() []string {
	return []string{
		"job_id", "video_id", "input_artifact_id", "output_artifact_id",
		"job_type", "status", "progress", "error_message", "created_at", "updated_at",
	}
}

func TestJobRepoCreate(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	videoID := uuid.New()
	jobID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(jobColumns()).AddRow(
		jobID, videoID, nil, nil, models.JobTypeTrim, models.JobStatusPending, 0, nil, now, now,
	)
	mock.ExpectQuery("INSERT INTO jobs").
		WithArgs(videoID, uuid.NullUUID{}, models.JobTypeTrim, models.JobStatusPending).
		WillReturnRows(rows)

	created, err := repo.Create(context.Background(), &models.Job{
		VideoID: videoID,
		Type:    models.JobTypeTrim,
	})
	require.NoError(t, err)
	assert.Equal(t, jobID, created.JobID)
	assert.Equal(t, models.JobStatusPending, created.Status)
	assert.Equal(t, 0, created.Progress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepoMarkStarted(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	jobID := uuid.New()
	mock.ExpectExec("UPDATE jobs SET status = 'STARTED'").
		WithArgs(jobID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkStarted(context.Background(), jobID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepoMarkStartedGuard(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	// no PENDING row matched: the job already moved on
	jobID := uuid.New()
	mock.ExpectExec("UPDATE jobs SET status = 'STARTED'").
		WithArgs(jobID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkStarted(context.Background(), jobID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no row in eligible state")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepoMarkFailureGuard(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	// terminal rows never regress
	jobID := uuid.New()
	mock.ExpectExec("UPDATE jobs SET status = 'FAILURE'").
		WithArgs(jobID, "tool exploded").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkFailure(context.Background(), jobID, "tool exploded")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepoUpdateProgress(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	jobID := uuid.New()
	mock.ExpectExec("UPDATE jobs SET progress = GREATEST").
		WithArgs(jobID, 70).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateProgress(context.Background(), jobID, 70))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepoGetByID(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	jobID := uuid.New()
	videoID := uuid.New()
	now := time.Now()
	msg := "processing interrupted by server restart"

	rows := sqlmock.NewRows(jobColumns()).AddRow(
		jobID, videoID, nil, nil, models.JobTypeTranscodeMulti, models.JobStatusFailure, 33, &msg, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM jobs WHERE job_id").
		WithArgs(jobID).
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailure, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, msg, *job.ErrorMessage)
	require.NoError(t, mock.ExpectationsWereMet())
}
