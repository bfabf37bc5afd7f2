package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, JobStatusPending.CanTransition(JobStatusStarted))
	assert.True(t, JobStatusStarted.CanTransition(JobStatusSuccess))
	assert.True(t, JobStatusStarted.CanTransition(JobStatusFailure))

	assert.False(t, JobStatusPending.CanTransition(JobStatusSuccess))
	assert.False(t, JobStatusStarted.CanTransition(JobStatusPending))
	assert.False(t, JobStatusSuccess.CanTransition(JobStatusFailure))
	assert.False(t, JobStatusFailure.CanTransition(JobStatusStarted))

	assert.True(t, JobStatusSuccess.Terminal())
	assert.True(t, JobStatusFailure.Terminal())
	assert.False(t, JobStatusStarted.Terminal())
}

func TestParseQuality(t *testing.T) {
	t.Parallel()

	q, ok := ParseQuality("720p")
	assert.True(t, ok)
	assert.Equal(t, Quality720P, q)
	assert.Equal(t, 720, q.Height())

	_, ok = ParseQuality("4k")
	assert.False(t, ok)

	_, ok = ParseQuality("source")
	assert.False(t, ok)
}
