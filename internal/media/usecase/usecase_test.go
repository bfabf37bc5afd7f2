package usecase

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/filters"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/clipforge/clipforge/internal/worker"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMediaRepo struct {
	media.Repository
	videos    map[uuid.UUID]*models.Video
	artifacts map[uuid.UUID]*models.Artifact
}

func (s *stubMediaRepo) GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	video, ok := s.videos[videoID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return video, nil
}

func (s *stubMediaRepo) GetArtifactByID(ctx context.Context, artifactID uuid.UUID) (*models.Artifact, error) {
	artifact, ok := s.artifacts[artifactID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return artifact, nil
}

type captureManager struct {
	jobType models.JobType
	params  worker.Params
	jobID   uuid.UUID
}

func (c *captureManager) Submit(ctx context.Context, jobType models.JobType, videoID uuid.UUID, inputArtifactID uuid.NullUUID, params worker.Params) (uuid.UUID, error) {
	c.jobType = jobType
	c.params = params
	c.jobID = uuid.New()
	return c.jobID, nil
}

func testLogger() logger.Logger {
	log := logger.NewApiLogger(&config.Config{Logger: config.Logger{Level: "error"}})
	log.InitLogger()
	return log
}

func newTestUC(t *testing.T, repo *stubMediaRepo) (media.UseCase, *captureManager, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Media: config.MediaConfig{
			MediaRoot:        root,
			AssetsDir:        filepath.Join(root, "assets"),
			MaxOverlayInputs: 8,
		},
	}
	store, err := storage.NewStore(cfg)
	require.NoError(t, err)
	manager := &captureManager{}
	return NewMediaUseCase(cfg, repo, nil, store, manager, testLogger()), manager, cfg
}

func seedVideo(repo *stubMediaRepo) *models.Video {
	video := &models.Video{
		VideoID:     uuid.New(),
		FileName:    "clip.mp4",
		StoredPath:  "/media/uploads/clip.mp4",
		DurationSec: 10,
	}
	repo.videos[video.VideoID] = video
	return video
}

func newStubRepo() *stubMediaRepo {
	return &stubMediaRepo{
		videos:    make(map[uuid.UUID]*models.Video),
		artifacts: make(map[uuid.UUID]*models.Artifact),
	}
}

func TestSubmitTrim(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	video := seedVideo(repo)
	uc, manager, _ := newTestUC(t, repo)

	jobID, err := uc.SubmitTrim(context.Background(), &models.TrimInput{
		VideoID: video.VideoID,
		Start:   "00:00:02",
		End:     "15", // clamped to the 10s duration
	})
	require.NoError(t, err)
	assert.Equal(t, manager.jobID, jobID)
	assert.Equal(t, models.JobTypeTrim, manager.jobType)

	params, ok := manager.params.(worker.TrimParams)
	require.True(t, ok)
	assert.Equal(t, 2.0, params.StartSec)
	assert.Equal(t, 10.0, params.EndSec)
	assert.Equal(t, video.StoredPath, params.InputPath)
}

func TestSubmitTrimRejectsBadRange(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	video := seedVideo(repo)
	uc, _, _ := newTestUC(t, repo)

	_, err := uc.SubmitTrim(context.Background(), &models.TrimInput{
		VideoID: video.VideoID,
		Start:   "8",
		End:     "3",
	})
	assert.True(t, errors.Is(err, utils.ErrInvalidRange))
}

func TestSubmitTrimFromArtifact(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	video := seedVideo(repo)
	artifact := &models.Artifact{
		ArtifactID:  uuid.New(),
		VideoID:     video.VideoID,
		StoredPath:  "/media/variants/prev.mp4",
		DurationSec: 6,
	}
	repo.artifacts[artifact.ArtifactID] = artifact
	uc, manager, _ := newTestUC(t, repo)

	_, err := uc.SubmitTrim(context.Background(), &models.TrimInput{
		VideoID:          video.VideoID,
		SourceArtifactID: &artifact.ArtifactID,
		Start:            "1",
		End:              "5",
	})
	require.NoError(t, err)

	params := manager.params.(worker.TrimParams)
	assert.Equal(t, artifact.StoredPath, params.InputPath)
	require.True(t, params.SourceArtifactID.Valid)
	assert.Equal(t, artifact.ArtifactID, params.SourceArtifactID.UUID)
}

func TestSubmitTrimRejectsForeignArtifact(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	video := seedVideo(repo)
	foreign := &models.Artifact{ArtifactID: uuid.New(), VideoID: uuid.New()}
	repo.artifacts[foreign.ArtifactID] = foreign
	uc, _, _ := newTestUC(t, repo)

	_, err := uc.SubmitTrim(context.Background(), &models.TrimInput{
		VideoID:          video.VideoID,
		SourceArtifactID: &foreign.ArtifactID,
		Start:            "1",
		End:              "5",
	})
	assert.True(t, errors.Is(err, ErrArtifactMismatch))
}

func TestSubmitOverlaysGuardsAssetPaths(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	video := seedVideo(repo)
	uc, _, _ := newTestUC(t, repo)

	_, err := uc.SubmitOverlays(context.Background(), &models.OverlaysInput{
		VideoID: video.VideoID,
		Overlays: []models.OverlaySpec{
			{Type: models.OverlayImage, ImagePath: "/etc/passwd"},
		},
	})
	assert.True(t, errors.Is(err, storage.ErrPathNotAllowed))
}

func TestSubmitOverlaysRejectsEmpty(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	video := seedVideo(repo)
	uc, _, _ := newTestUC(t, repo)

	_, err := uc.SubmitOverlays(context.Background(), &models.OverlaysInput{VideoID: video.VideoID})
	assert.True(t, errors.Is(err, ErrNoOverlays))
}

func TestSubmitOverlaysRejectsBadExpression(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	video := seedVideo(repo)
	uc, _, _ := newTestUC(t, repo)

	_, err := uc.SubmitOverlays(context.Background(), &models.OverlaysInput{
		VideoID: video.VideoID,
		Overlays: []models.OverlaySpec{
			{Type: models.OverlayText, Text: "hi", X: "rm -rf"},
		},
	})
	assert.True(t, errors.Is(err, filters.ErrInvalidExpression))
}

func TestSubmitWatermarkUsesWatermarkType(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	video := seedVideo(repo)
	uc, manager, cfg := newTestUC(t, repo)

	_, err := uc.SubmitWatermark(context.Background(), &models.WatermarkInput{
		VideoID: video.VideoID,
		Watermark: models.WatermarkSpec{
			ImagePath: filepath.Join(cfg.Media.AssetsDir, "wm.png"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeWatermark, manager.jobType)

	params, ok := manager.params.(worker.OverlayParams)
	require.True(t, ok)
	assert.Empty(t, params.Overlays)
	require.NotNil(t, params.Watermark)
}

func TestSubmitTranscode(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	video := seedVideo(repo)
	uc, manager, _ := newTestUC(t, repo)

	_, err := uc.SubmitTranscode(context.Background(), &models.TranscodeInput{
		VideoID:   video.VideoID,
		Qualities: []string{"720p"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeTranscodeMulti, manager.jobType)
	params := manager.params.(worker.TranscodeParams)
	assert.Equal(t, []models.ArtifactQuality{models.Quality720P}, params.Qualities)

	// omitted qualities default to the full ladder
	_, err = uc.SubmitTranscode(context.Background(), &models.TranscodeInput{VideoID: video.VideoID})
	require.NoError(t, err)
	params = manager.params.(worker.TranscodeParams)
	assert.Len(t, params.Qualities, 3)

	_, err = uc.SubmitTranscode(context.Background(), &models.TranscodeInput{
		VideoID:   video.VideoID,
		Qualities: []string{"4k"},
	})
	assert.True(t, errors.Is(err, ErrUnknownQuality))
}
