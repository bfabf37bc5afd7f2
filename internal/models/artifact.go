package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type ArtifactKind string

const (
	KindOriginal  ArtifactKind = "original"
	KindTrim      ArtifactKind = "trim"
	KindOverlay   ArtifactKind = "overlay"
	KindWatermark ArtifactKind = "watermark"
	KindTranscode ArtifactKind = "transcode"
)

type ArtifactQuality string

const (
	QualitySource ArtifactQuality = "source"
	Quality1080P  ArtifactQuality = "1080p"
	Quality720P   ArtifactQuality = "720p"
	Quality480P   ArtifactQuality = "480p"
)

// Height returns the target frame height for a quality, 0 for source.
func (q ArtifactQuality) Height() int {
	switch q {
	case Quality1080P:
		return 1080
	case Quality720P:
		return 720
	case Quality480P:
		return 480
	default:
		return 0
	}
}

// ParseQuality maps a quality tag like "720p" to its enum value.
func ParseQuality(s string) (ArtifactQuality, bool) {
	switch ArtifactQuality(s) {
	case Quality1080P, Quality720P, Quality480P:
		return ArtifactQuality(s), true
	default:
		return "", false
	}
}

// Artifact is a stored media file, either an original upload or a variant
// derived from one. Non-original artifacts carry SourceArtifactID, forming a
// derivation tree rooted at the original; artifacts are immutable once
// created.
type Artifact struct {
	ArtifactID       uuid.UUID       `json:"artifact_id" db:"artifact_id"`
	VideoID          uuid.UUID       `json:"video_id" db:"video_id"`
	Kind             ArtifactKind    `json:"kind" db:"kind"`
	Quality          ArtifactQuality `json:"quality" db:"quality"`
	SourceArtifactID uuid.NullUUID   `json:"source_artifact_id,omitempty" db:"source_artifact_id"`
	StoredPath       string          `json:"stored_path" db:"stored_path"`
	SizeBytes        int64           `json:"size_bytes" db:"size_bytes"`
	DurationSec      float64         `json:"duration_sec" db:"duration_sec"`
	Config           types.JSONText  `json:"config,omitempty" db:"config"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}
