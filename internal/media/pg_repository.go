package media

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
)

type Repository interface {
	CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error)
	GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error)
	ListVideos(ctx context.Context, pq *utils.Pagination) (*models.VideoList, error)

	CreateArtifact(ctx context.Context, artifact *models.Artifact) (*models.Artifact, error)
	GetArtifactByID(ctx context.Context, artifactID uuid.UUID) (*models.Artifact, error)
	ListArtifactsByVideo(ctx context.Context, videoID uuid.UUID) ([]*models.Artifact, error)
}
