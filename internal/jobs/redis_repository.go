package jobs

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
)

// CachedState is the hot view of a running job kept in redis so status polls
// do not hammer postgres. Best effort only; the job row is the source of
// truth.
type CachedState struct {
	Status   models.JobStatus `redis:"status"`
	Progress int              `redis:"progress"`
}

type RedisRepository interface {
	SetProgress(ctx context.Context, jobID string, progress int) error
	SetStatus(ctx context.Context, jobID string, status models.JobStatus, progress int) error
	GetState(ctx context.Context, jobID string) (*CachedState, error)
}
