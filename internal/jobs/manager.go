package jobs

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/worker"
	"github.com/google/uuid"
)

// Manager schedules operations onto the bounded worker pool. Submit is
// non-blocking: it persists a PENDING job and returns its id; all media work
// happens off the calling path.
type Manager interface {
	Submit(ctx context.Context, jobType models.JobType, videoID uuid.UUID, inputArtifactID uuid.NullUUID, params worker.Params) (uuid.UUID, error)
}

type UseCase interface {
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
}
