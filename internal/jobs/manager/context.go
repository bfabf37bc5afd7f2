package manager

import (
	"context"
	"sync"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Progress deltas below this are coalesced away, except the final 100.
const minProgressStep = 5

// jobContext is the executor's handle to its own job row. It enforces the
// lifecycle rules the executors must not be trusted with: progress only
// moves forward, nothing moves after a terminal state, and the terminal
// transition happens once.
type jobContext struct {
	m   *JobManager
	job *models.Job

	mu           sync.Mutex
	terminal     bool
	lastReported int
}

func newJobContext(m *JobManager, job *models.Job) *jobContext {
	return &jobContext{m: m, job: job}
}

// ReportProgress clamps to [0,100], drops regressions and small increments,
// and mirrors accepted values to redis. Persistence failures are logged, not
// returned; a lost progress update must never abort the job itself.
func (jc *jobContext) ReportProgress(ctx context.Context, progress int) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	jc.mu.Lock()
	if jc.terminal || progress <= jc.lastReported {
		jc.mu.Unlock()
		return
	}
	if progress-jc.lastReported < minProgressStep && progress != 100 {
		jc.mu.Unlock()
		return
	}
	jc.lastReported = progress
	jc.mu.Unlock()

	if err := jc.m.jobRepo.UpdateProgress(ctx, jc.job.JobID, progress); err != nil {
		jc.m.log.Warnf("progress update for job %s: %v", jc.job.JobID, err)
		return
	}
	if jc.m.redisRepo != nil {
		if err := jc.m.redisRepo.SetProgress(ctx, jc.job.JobID.String(), progress); err != nil {
			jc.m.log.Warnf("redis progress mirror for job %s: %v", jc.job.JobID, err)
		}
	}
}

// Complete records SUCCESS with the job's primary output artifact. A second
// terminal call on the same context is a defect and is rejected.
func (jc *jobContext) Complete(ctx context.Context, outputArtifactID uuid.UUID) error {
	jc.mu.Lock()
	if jc.terminal {
		jc.mu.Unlock()
		return errors.New("job already in terminal state")
	}
	jc.terminal = true
	jc.mu.Unlock()

	if err := jc.m.jobRepo.MarkSuccess(ctx, jc.job.JobID, outputArtifactID); err != nil {
		// leave the context non-terminal so the manager can still fail the row
		jc.mu.Lock()
		jc.terminal = false
		jc.mu.Unlock()
		return errors.Wrap(err, "jobContext.Complete")
	}
	jc.m.mirrorStatus(ctx, jc.job.JobID, models.JobStatusSuccess, 100)
	return nil
}

func (jc *jobContext) finished() bool {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	return jc.terminal
}

func (jc *jobContext) markFinished() {
	jc.mu.Lock()
	jc.terminal = true
	jc.mu.Unlock()
}
