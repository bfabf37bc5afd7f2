package models

import "github.com/google/uuid"

type OverlayType string

const (
	OverlayText  OverlayType = "text"
	OverlayImage OverlayType = "image"
	OverlayVideo OverlayType = "video"
)

// OverlaySpec declares one overlay stage. X and Y hold either literal pixel
// coordinates or ffmpeg position expressions over W/H (main canvas) and w/h
// (the overlay itself); expressions are validated syntactically and passed
// through to the tool unevaluated. The active window is [Start, End); a nil
// End means until the end of the media. Specs exist only for the duration of
// one compile-and-execute cycle.
type OverlaySpec struct {
	Type      OverlayType `json:"type" validate:"required,oneof=text image video"`
	Text      string      `json:"text,omitempty"`
	Font      string      `json:"font,omitempty"`
	FontSize  int         `json:"font_size,omitempty"`
	Color     string      `json:"color,omitempty"`
	ImagePath string      `json:"image_path,omitempty"`
	VideoPath string      `json:"video_path,omitempty"`
	X         string      `json:"x,omitempty"`
	Y         string      `json:"y,omitempty"`
	Start     float64     `json:"start" validate:"gte=0"`
	End       *float64    `json:"end,omitempty"`
	Opacity   *float64    `json:"opacity,omitempty" validate:"omitempty,gte=0,lte=1"`
	Scale     float64     `json:"scale,omitempty"`
}

// AssetPath returns the auxiliary input path for image/video overlays,
// empty for text.
func (o *OverlaySpec) AssetPath() string {
	switch o.Type {
	case OverlayImage:
		return o.ImagePath
	case OverlayVideo:
		return o.VideoPath
	default:
		return ""
	}
}

// WatermarkSpec is an image overlay composited last with an always-active
// window.
type WatermarkSpec struct {
	ImagePath string  `json:"image_path" validate:"required"`
	X         string  `json:"x,omitempty"`
	Y         string  `json:"y,omitempty"`
	Opacity   float64 `json:"opacity,omitempty" validate:"gte=0,lte=1"`
}

type OverlaysInput struct {
	VideoID          uuid.UUID      `json:"video_id" validate:"required"`
	SourceArtifactID *uuid.UUID     `json:"source_artifact_id,omitempty"`
	Overlays         []OverlaySpec  `json:"overlays" validate:"dive"`
	Watermark        *WatermarkSpec `json:"watermark,omitempty"`
}

type WatermarkInput struct {
	VideoID          uuid.UUID     `json:"video_id" validate:"required"`
	SourceArtifactID *uuid.UUID    `json:"source_artifact_id,omitempty"`
	Watermark        WatermarkSpec `json:"watermark" validate:"required"`
}

type TranscodeInput struct {
	VideoID   uuid.UUID `json:"video_id" validate:"required"`
	Qualities []string  `json:"qualities,omitempty"`
}

type JobIDResponse struct {
	JobID uuid.UUID `json:"job_id"`
}
