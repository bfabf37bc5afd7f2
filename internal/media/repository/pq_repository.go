package repository

import (
	"context"
	"fmt"

	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type mediaRepo struct {
	db *sqlx.DB
}

func NewMediaRepo(db *sqlx.DB) media.Repository {
	return &mediaRepo{
		db: db,
	}
}

func (r *mediaRepo) CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	created := &models.Video{}
	if err := r.db.QueryRowxContext(
		ctx,
		createVideoQuery,
		video.FileName,
		video.StoredPath,
		video.SizeBytes,
		video.DurationSec,
		video.MimeType,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	return created, nil
}

func (r *mediaRepo) GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	video := &models.Video{}
	if err := r.db.QueryRowxContext(ctx, getVideoByIDQuery, videoID).StructScan(video); err != nil {
		return nil, fmt.Errorf("failed to get video by id: %w", err)
	}
	return video, nil
}

func (r *mediaRepo) ListVideos(ctx context.Context, pq *utils.Pagination) (*models.VideoList, error) {
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countVideosQuery); err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}
	if totalCount == 0 {
		return &models.VideoList{
			Videos:     make([]*models.Video, 0),
			TotalCount: totalCount,
			Page:       pq.GetPage(),
			PageSize:   pq.GetSize(),
			HasMore:    false,
		}, nil
	}

	rows, err := r.db.QueryxContext(ctx, listVideosQuery, pq.GetOffset(), pq.GetLimit())
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := make([]*models.Video, 0, pq.GetSize())
	for rows.Next() {
		var video models.Video
		if err = rows.StructScan(&video); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, &video)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan videos: %w", err)
	}

	return &models.VideoList{
		Videos:     videos,
		TotalCount: totalCount,
		Page:       pq.GetPage(),
		PageSize:   pq.GetSize(),
		HasMore:    utils.GetHasMore(pq.GetPage(), totalCount, pq.GetSize()),
	}, nil
}

func (r *mediaRepo) CreateArtifact(ctx context.Context, artifact *models.Artifact) (*models.Artifact, error) {
	created := &models.Artifact{}
	if err := r.db.QueryRowxContext(
		ctx,
		createArtifactQuery,
		artifact.VideoID,
		artifact.Kind,
		artifact.Quality,
		artifact.SourceArtifactID,
		artifact.StoredPath,
		artifact.SizeBytes,
		artifact.DurationSec,
		artifact.Config,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	return created, nil
}

func (r *mediaRepo) GetArtifactByID(ctx context.Context, artifactID uuid.UUID) (*models.Artifact, error) {
	artifact := &models.Artifact{}
	if err := r.db.QueryRowxContext(ctx, getArtifactByIDQuery, artifactID).StructScan(artifact); err != nil {
		return nil, fmt.Errorf("failed to get artifact by id: %w", err)
	}
	return artifact, nil
}

func (r *mediaRepo) ListArtifactsByVideo(ctx context.Context, videoID uuid.UUID) ([]*models.Artifact, error) {
	rows, err := r.db.QueryxContext(ctx, listArtifactsByVideoQuery, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*models.Artifact
	for rows.Next() {
		var artifact models.Artifact
		if err = rows.StructScan(&artifact); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, &artifact)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan artifacts: %w", err)
	}
	return artifacts, nil
}
