package usecase

import (
	"context"
	"io"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/filters"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/clipforge/clipforge/internal/worker"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNoOverlays       = errors.New("at least one overlay or a watermark is required")
	ErrUnknownQuality   = errors.New("unknown quality tag")
	ErrArtifactMismatch = errors.New("artifact does not belong to video")
)

var defaultQualities = []models.ArtifactQuality{
	models.Quality1080P,
	models.Quality720P,
	models.Quality480P,
}

type mediaUC struct {
	cfg        *config.Config
	mediaRepo  media.Repository
	awsRepo    media.AWSRepository
	store      *storage.Store
	runner     *worker.Runner
	compiler   *filters.Compiler
	jobManager jobs.Manager
	log        logger.Logger
}

func NewMediaUseCase(
	cfg *config.Config,
	mediaRepo media.Repository,
	awsRepo media.AWSRepository,
	store *storage.Store,
	jobManager jobs.Manager,
	log logger.Logger,
) media.UseCase {
	return &mediaUC{
		cfg:        cfg,
		mediaRepo:  mediaRepo,
		awsRepo:    awsRepo,
		store:      store,
		runner:     worker.NewRunner(cfg.Media.FfmpegBin, cfg.Media.FfprobeBin, log),
		compiler:   filters.NewCompiler(cfg.Media.FontDir, cfg.Media.MaxOverlayInputs),
		jobManager: jobManager,
		log:        log,
	}
}

// UploadVideo streams the body to disk through the temp-then-rename protocol,
// probes the committed file for its duration and records the video row.
func (u *mediaUC) UploadVideo(ctx context.Context, fileName, mimeType string, body io.Reader) (*models.Video, error) {
	storedPath, size, err := u.store.SaveUpload(body, storage.SafeExt(fileName))
	if err != nil {
		return nil, errors.Wrap(err, "mediaUC.UploadVideo")
	}
	info, err := u.runner.Probe(ctx, storedPath)
	if err != nil {
		return nil, errors.Wrap(err, "mediaUC.UploadVideo.probe")
	}
	video := &models.Video{
		FileName:    fileName,
		StoredPath:  storedPath,
		SizeBytes:   size,
		DurationSec: info.DurationSec,
		MimeType:    mimeType,
	}
	if err := utils.ValidateStruct(ctx, video); err != nil {
		return nil, errors.Wrap(err, "mediaUC.UploadVideo.validate")
	}
	created, err := u.mediaRepo.CreateVideo(ctx, video)
	if err != nil {
		return nil, err
	}
	u.log.Infof("uploaded video %s (%s, %.2fs)", created.VideoID, fileName, info.DurationSec)
	return created, nil
}

func (u *mediaUC) GetVideo(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	return u.mediaRepo.GetVideoByID(ctx, videoID)
}

func (u *mediaUC) ListVideos(ctx context.Context, pq *utils.Pagination) (*models.VideoList, error) {
	return u.mediaRepo.ListVideos(ctx, pq)
}

func (u *mediaUC) GetArtifact(ctx context.Context, artifactID uuid.UUID) (*models.Artifact, error) {
	return u.mediaRepo.GetArtifactByID(ctx, artifactID)
}

func (u *mediaUC) ListVariants(ctx context.Context, videoID uuid.UUID) ([]*models.Artifact, error) {
	if _, err := u.mediaRepo.GetVideoByID(ctx, videoID); err != nil {
		return nil, err
	}
	return u.mediaRepo.ListArtifactsByVideo(ctx, videoID)
}

// DownloadArtifact points the caller at a committed variant. When the
// artifact was published to object storage, a presigned URL is attached so
// the download can bypass this server.
func (u *mediaUC) DownloadArtifact(ctx context.Context, artifactID uuid.UUID) (*media.Download, error) {
	artifact, err := u.mediaRepo.GetArtifactByID(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	download := &media.Download{
		LocalPath: artifact.StoredPath,
		FileName:  storage.VariantFileName(artifact.StoredPath),
	}
	if u.cfg.S3.Enabled && u.awsRepo != nil && artifact.Kind != models.KindOriginal {
		key := "variants/" + download.FileName
		url, err := u.awsRepo.GetPresignedURL(ctx, u.cfg.S3.OutputBucket, key)
		if err != nil {
			u.log.Warnf("presign for artifact %s: %v", artifactID, err)
		} else {
			download.PresignedURL = url
		}
	}
	return download, nil
}

// resolveInput finds the media file an operation should read: the named
// source artifact when given, otherwise the original upload. The artifact
// must belong to the named video.
func (u *mediaUC) resolveInput(ctx context.Context, videoID uuid.UUID, sourceArtifactID *uuid.UUID) (*models.Video, string, float64, uuid.NullUUID, error) {
	video, err := u.mediaRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, "", 0, uuid.NullUUID{}, err
	}
	if sourceArtifactID == nil {
		return video, video.StoredPath, video.DurationSec, uuid.NullUUID{}, nil
	}
	artifact, err := u.mediaRepo.GetArtifactByID(ctx, *sourceArtifactID)
	if err != nil {
		return nil, "", 0, uuid.NullUUID{}, err
	}
	if artifact.VideoID != videoID {
		return nil, "", 0, uuid.NullUUID{}, errors.Wrapf(ErrArtifactMismatch, "artifact %s", *sourceArtifactID)
	}
	return video, artifact.StoredPath, artifact.DurationSec, uuid.NullUUID{UUID: artifact.ArtifactID, Valid: true}, nil
}

// SubmitTrim validates the window against the input duration and enqueues
// the job. Range errors surface synchronously; only tool execution is
// deferred.
func (u *mediaUC) SubmitTrim(ctx context.Context, input *models.TrimInput) (uuid.UUID, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return uuid.Nil, err
	}
	video, inputPath, duration, sourceID, err := u.resolveInput(ctx, input.VideoID, input.SourceArtifactID)
	if err != nil {
		return uuid.Nil, err
	}
	startSec, endSec, err := utils.NormalizeRange(input.Start, input.End, duration)
	if err != nil {
		return uuid.Nil, err
	}
	return u.jobManager.Submit(ctx, models.JobTypeTrim, video.VideoID, sourceID, worker.TrimParams{
		VideoID:          video.VideoID,
		SourceArtifactID: sourceID,
		InputPath:        inputPath,
		StartSec:         startSec,
		EndSec:           endSec,
	})
}

// SubmitOverlays validates every overlay synchronously: asset paths must sit
// under the allowed roots and the graph must compile. The worker recompiles
// the same specs, so an asynchronous compile failure is a defect, not a user
// error.
func (u *mediaUC) SubmitOverlays(ctx context.Context, input *models.OverlaysInput) (uuid.UUID, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return uuid.Nil, err
	}
	if len(input.Overlays) == 0 && input.Watermark == nil {
		return uuid.Nil, ErrNoOverlays
	}
	for i := range input.Overlays {
		if path := input.Overlays[i].AssetPath(); path != "" {
			if err := u.store.ValidateAssetPath(path); err != nil {
				return uuid.Nil, err
			}
		}
	}
	if input.Watermark != nil {
		if err := u.store.ValidateAssetPath(input.Watermark.ImagePath); err != nil {
			return uuid.Nil, err
		}
	}
	if _, err := u.compiler.Compile(input.Overlays, input.Watermark); err != nil {
		return uuid.Nil, err
	}

	video, inputPath, _, sourceID, err := u.resolveInput(ctx, input.VideoID, input.SourceArtifactID)
	if err != nil {
		return uuid.Nil, err
	}
	jobType := models.JobTypeOverlay
	if len(input.Overlays) == 0 {
		jobType = models.JobTypeWatermark
	}
	return u.jobManager.Submit(ctx, jobType, video.VideoID, sourceID, worker.OverlayParams{
		VideoID:          video.VideoID,
		SourceArtifactID: sourceID,
		InputPath:        inputPath,
		Overlays:         input.Overlays,
		Watermark:        input.Watermark,
	})
}

func (u *mediaUC) SubmitWatermark(ctx context.Context, input *models.WatermarkInput) (uuid.UUID, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return uuid.Nil, err
	}
	return u.SubmitOverlays(ctx, &models.OverlaysInput{
		VideoID:          input.VideoID,
		SourceArtifactID: input.SourceArtifactID,
		Watermark:        &input.Watermark,
	})
}

// SubmitTranscode enqueues one job that renders every requested quality.
// Omitted qualities default to the full ladder.
func (u *mediaUC) SubmitTranscode(ctx context.Context, input *models.TranscodeInput) (uuid.UUID, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return uuid.Nil, err
	}
	qualities := make([]models.ArtifactQuality, 0, len(input.Qualities))
	for _, tag := range input.Qualities {
		q, ok := models.ParseQuality(tag)
		if !ok {
			return uuid.Nil, errors.Wrapf(ErrUnknownQuality, "%q", tag)
		}
		qualities = append(qualities, q)
	}
	if len(qualities) == 0 {
		qualities = defaultQualities
	}

	video, err := u.mediaRepo.GetVideoByID(ctx, input.VideoID)
	if err != nil {
		return uuid.Nil, err
	}
	return u.jobManager.Submit(ctx, models.JobTypeTranscodeMulti, video.VideoID, uuid.NullUUID{}, worker.TranscodeParams{
		VideoID:   video.VideoID,
		InputPath: video.StoredPath,
		Qualities: qualities,
	})
}
