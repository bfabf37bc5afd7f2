package models

import (
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeTrim           JobType = "trim"
	JobTypeOverlay        JobType = "overlay"
	JobTypeWatermark      JobType = "watermark"
	JobTypeTranscodeMulti JobType = "transcode_multi"
)

type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusStarted JobStatus = "STARTED"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailure JobStatus = "FAILURE"
)

// CanTransition reports whether moving to next is a forward transition.
// Status is strictly monotonic: PENDING -> STARTED -> {SUCCESS, FAILURE}.
func (s JobStatus) CanTransition(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusStarted
	case JobStatusStarted:
		return next == JobStatusSuccess || next == JobStatusFailure
	default:
		return false
	}
}

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailure
}

// Job is the durable record of one asynchronous operation. A job references
// at most one input artifact; OutputArtifactID is set iff status is SUCCESS
// and ErrorMessage is set iff status is FAILURE.
type Job struct {
	JobID            uuid.UUID     `json:"job_id" db:"job_id"`
	VideoID          uuid.UUID     `json:"video_id" db:"video_id"`
	InputArtifactID  uuid.NullUUID `json:"input_artifact_id,omitempty" db:"input_artifact_id"`
	OutputArtifactID uuid.NullUUID `json:"output_artifact_id,omitempty" db:"output_artifact_id"`
	Type             JobType       `json:"job_type" db:"job_type"`
	Status           JobStatus     `json:"status" db:"status"`
	Progress         int           `json:"progress" db:"progress"`
	ErrorMessage     *string       `json:"error_message,omitempty" db:"error_message"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}
