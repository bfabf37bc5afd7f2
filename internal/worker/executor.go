package worker

import (
	"context"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/filters"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrBadParams = errors.New("mismatched executor parameters")

// Params is the closed set of operation parameters. Submission resolves all
// references up front, so executors never re-validate request semantics.
type Params interface {
	isParams()
}

type TrimParams struct {
	VideoID          uuid.UUID
	SourceArtifactID uuid.NullUUID
	InputPath        string
	StartSec         float64
	EndSec           float64
}

func (TrimParams) isParams() {}

type OverlayParams struct {
	VideoID          uuid.UUID
	SourceArtifactID uuid.NullUUID
	InputPath        string
	Overlays         []models.OverlaySpec
	Watermark        *models.WatermarkSpec
}

func (OverlayParams) isParams() {}

type TranscodeParams struct {
	VideoID          uuid.UUID
	SourceArtifactID uuid.NullUUID
	InputPath        string
	Qualities        []models.ArtifactQuality
}

func (TranscodeParams) isParams() {}

// JobContext is the capability surface the job manager hands an executor:
// progress write-through and the single success transition. Failure is owned
// by the manager, which classifies the returned error.
type JobContext interface {
	ReportProgress(ctx context.Context, progress int)
	Complete(ctx context.Context, outputArtifactID uuid.UUID) error
}

// Executor compiles validated parameters into external tool invocations,
// supervises them and commits the result. A nil return means Complete was
// called; any error is turned into the FAILURE transition by the manager.
type Executor interface {
	Execute(ctx context.Context, job *models.Job, params Params, jc JobContext) error
}

type Executors struct {
	Trim      Executor
	Overlay   Executor
	Transcode Executor
}

type base struct {
	cfg     *config.Config
	repo    media.Repository
	store   *storage.Store
	runner  *Runner
	awsRepo media.AWSRepository
	log     logger.Logger
}

func NewExecutors(
	cfg *config.Config,
	repo media.Repository,
	store *storage.Store,
	awsRepo media.AWSRepository,
	log logger.Logger,
) *Executors {
	b := base{
		cfg:     cfg,
		repo:    repo,
		store:   store,
		runner:  NewRunner(cfg.Media.FfmpegBin, cfg.Media.FfprobeBin, log),
		awsRepo: awsRepo,
		log:     log,
	}
	return &Executors{
		Trim:      &TrimExecutor{base: b},
		Overlay:   &OverlayExecutor{base: b, compiler: filters.NewCompiler(cfg.Media.FontDir, cfg.Media.MaxOverlayInputs)},
		Transcode: &TranscodeExecutor{base: b},
	}
}

// publish uploads a committed variant to the output bucket when S3 is
// enabled; local storage stays the source of truth either way.
func (b *base) publish(ctx context.Context, finalPath string) error {
	if !b.cfg.S3.Enabled || b.awsRepo == nil {
		return nil
	}
	key := "variants/" + storage.VariantFileName(finalPath)
	if err := b.awsRepo.PublishFile(ctx, b.cfg.S3.OutputBucket, key, finalPath); err != nil {
		return errors.Wrapf(err, "publish %s", key)
	}
	return nil
}
