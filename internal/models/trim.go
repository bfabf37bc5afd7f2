package models

import (
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
)

type TrimInput struct {
	VideoID          uuid.UUID      `json:"video_id" validate:"required"`
	SourceArtifactID *uuid.UUID     `json:"source_artifact_id,omitempty"`
	Start            utils.Timecode `json:"start" validate:"required"`
	End              utils.Timecode `json:"end" validate:"required"`
}
