package repository

import (
	"context"
	"fmt"

	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type jobRepo struct {
	db *sqlx.DB
}

func NewJobRepo(db *sqlx.DB) jobs.Repository {
	return &jobRepo{
		db: db,
	}
}

func (r *jobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	created := &models.Job{}
	if err := r.db.QueryRowxContext(
		ctx,
		createJobQuery,
		job.VideoID,
		job.InputArtifactID,
		job.Type,
		models.JobStatusPending,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return created, nil
}

func (r *jobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job := &models.Job{}
	if err := r.db.QueryRowxContext(
		ctx,
		getJobByIDQuery,
		jobID,
	).StructScan(job); err != nil {
		return nil, fmt.Errorf("failed to get job by id: %w", err)
	}
	return job, nil
}

func (r *jobRepo) ListByStatus(ctx context.Context, status models.JobStatus) ([]*models.Job, error) {
	rows, err := r.db.QueryxContext(ctx, listJobsByStatusQuery, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by status: %w", err)
	}
	defer rows.Close()
	var result []*models.Job
	for rows.Next() {
		var job models.Job
		if err = rows.StructScan(&job); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		result = append(result, &job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}
	return result, nil
}

func (r *jobRepo) MarkStarted(ctx context.Context, jobID uuid.UUID) error {
	return r.transition(ctx, markStartedQuery, "start", jobID)
}

func (r *jobRepo) UpdateProgress(ctx context.Context, jobID uuid.UUID, progress int) error {
	if _, err := r.db.ExecContext(ctx, updateProgressQuery, jobID, progress); err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}
	return nil
}

func (r *jobRepo) MarkSuccess(ctx context.Context, jobID uuid.UUID, outputArtifactID uuid.UUID) error {
	return r.transition(ctx, markSuccessQuery, "complete", jobID, outputArtifactID)
}

func (r *jobRepo) MarkFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	return r.transition(ctx, markFailureQuery, "fail", jobID, message)
}

func (r *jobRepo) transition(ctx context.Context, query, verb string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s job: %w", verb, err)
	}
	count, _ := res.RowsAffected()
	if count == 0 {
		return fmt.Errorf("failed to %s job: no row in eligible state", verb)
	}
	return nil
}
