package jobs

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/google/uuid"
)

// Repository owns the durable job rows. Transition methods carry the status
// guard into the UPDATE itself so a terminal row can never regress, whatever
// the caller does.
type Repository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	ListByStatus(ctx context.Context, status models.JobStatus) ([]*models.Job, error)

	MarkStarted(ctx context.Context, jobID uuid.UUID) error
	UpdateProgress(ctx context.Context, jobID uuid.UUID, progress int) error
	MarkSuccess(ctx context.Context, jobID uuid.UUID, outputArtifactID uuid.UUID) error
	MarkFailure(ctx context.Context, jobID uuid.UUID, message string) error
}
