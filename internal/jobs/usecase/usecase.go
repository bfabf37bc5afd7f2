package usecase

import (
	"context"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type jobsUC struct {
	cfg       *config.Config
	jobRepo   jobs.Repository
	redisRepo jobs.RedisRepository
	log       logger.Logger
}

func NewJobsUseCase(cfg *config.Config, jobRepo jobs.Repository, redisRepo jobs.RedisRepository, log logger.Logger) jobs.UseCase {
	return &jobsUC{
		cfg:       cfg,
		jobRepo:   jobRepo,
		redisRepo: redisRepo,
		log:       log,
	}
}

// GetJob reads the durable row and overlays any fresher progress from the
// redis mirror. The overlay only applies to a still running job; terminal
// rows are authoritative as written.
func (u *jobsUC) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "jobsUC.GetJob")
	}
	if job.Status.Terminal() || u.redisRepo == nil {
		return job, nil
	}
	state, err := u.redisRepo.GetState(ctx, jobID.String())
	if err != nil {
		return job, nil
	}
	if state.Progress > job.Progress {
		job.Progress = state.Progress
	}
	return job, nil
}
