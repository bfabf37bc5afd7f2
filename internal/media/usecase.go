package media

import (
	"context"
	"io"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
)

// Download points at a committed artifact: a local path to stream, plus a
// presigned URL when the artifact was published to object storage.
type Download struct {
	LocalPath    string `json:"local_path,omitempty"`
	PresignedURL string `json:"presigned_url,omitempty"`
	FileName     string `json:"file_name"`
}

type UseCase interface {
	UploadVideo(ctx context.Context, fileName, mimeType string, body io.Reader) (*models.Video, error)
	GetVideo(ctx context.Context, videoID uuid.UUID) (*models.Video, error)
	ListVideos(ctx context.Context, pq *utils.Pagination) (*models.VideoList, error)

	GetArtifact(ctx context.Context, artifactID uuid.UUID) (*models.Artifact, error)
	ListVariants(ctx context.Context, videoID uuid.UUID) ([]*models.Artifact, error)
	DownloadArtifact(ctx context.Context, artifactID uuid.UUID) (*Download, error)

	SubmitTrim(ctx context.Context, input *models.TrimInput) (uuid.UUID, error)
	SubmitOverlays(ctx context.Context, input *models.OverlaysInput) (uuid.UUID, error)
	SubmitWatermark(ctx context.Context, input *models.WatermarkInput) (uuid.UUID, error)
	SubmitTranscode(ctx context.Context, input *models.TranscodeInput) (uuid.UUID, error)
}
