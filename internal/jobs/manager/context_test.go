package manager

import (
	"context"
	"testing"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/worker"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*jobContext, *memJobRepo, *models.Job) {
	t.Helper()
	m, repo := newTestManager(t, 1, &fakeExecutor{})
	job, err := repo.Create(context.Background(), &models.Job{VideoID: uuid.New(), Type: models.JobTypeTrim})
	require.NoError(t, err)
	require.NoError(t, repo.MarkStarted(context.Background(), job.JobID))
	return newJobContext(m, job), repo, job
}

func TestReportProgressMonotonicCoalesced(t *testing.T) {
	t.Parallel()
	jc, repo, job := newTestContext(t)
	ctx := context.Background()

	jc.ReportProgress(ctx, 10)
	jc.ReportProgress(ctx, 12) // below the coalescing step, dropped
	jc.ReportProgress(ctx, 5)  // regression, dropped

	got, err := repo.GetByID(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Progress)

	jc.ReportProgress(ctx, 70)
	jc.ReportProgress(ctx, 150) // clamped
	got, err = repo.GetByID(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
}

func TestReportProgressFinalStepAlwaysThrough(t *testing.T) {
	t.Parallel()
	jc, repo, job := newTestContext(t)
	ctx := context.Background()

	jc.ReportProgress(ctx, 98)
	jc.ReportProgress(ctx, 100) // delta below step but final, kept

	got, err := repo.GetByID(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
}

func TestCompleteOnce(t *testing.T) {
	t.Parallel()
	jc, repo, job := newTestContext(t)
	ctx := context.Background()

	artifactID := uuid.New()
	require.NoError(t, jc.Complete(ctx, artifactID))
	require.Error(t, jc.Complete(ctx, uuid.New()))

	got, err := repo.GetByID(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusSuccess, got.Status)
	assert.Equal(t, artifactID, got.OutputArtifactID.UUID)
}

func TestProgressIgnoredAfterTerminal(t *testing.T) {
	t.Parallel()
	jc, repo, job := newTestContext(t)
	ctx := context.Background()

	require.NoError(t, jc.Complete(ctx, uuid.New()))
	jc.ReportProgress(ctx, 50)

	got, err := repo.GetByID(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, models.JobStatusSuccess, got.Status)
}

var _ worker.JobContext = (*jobContext)(nil)
