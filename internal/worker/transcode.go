package worker

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TranscodeExecutor produces one artifact per target quality, sequentially
// within the same job. The first failing quality fails the whole job and the
// remaining ones are skipped; a partially transcoded ladder is worse than a
// failed job.
type TranscodeExecutor struct {
	base
}

func (e *TranscodeExecutor) Execute(ctx context.Context, job *models.Job, params Params, jc JobContext) error {
	p, ok := params.(TranscodeParams)
	if !ok {
		return errors.Wrapf(ErrBadParams, "transcode executor got %T", params)
	}
	total := len(p.Qualities)
	if total == 0 {
		return errors.Wrap(ErrBadParams, "transcode: no target qualities")
	}

	var lastArtifactID uuid.UUID
	for i, quality := range p.Qualities {
		artifactID, err := e.transcodeOne(ctx, p, quality)
		if err != nil {
			return errors.Wrapf(err, "quality %s", quality)
		}
		lastArtifactID = artifactID
		jc.ReportProgress(ctx, 100*(i+1)/total)
	}
	return jc.Complete(ctx, lastArtifactID)
}

func (e *TranscodeExecutor) transcodeOne(ctx context.Context, p TranscodeParams, quality models.ArtifactQuality) (uuid.UUID, error) {
	invokeCtx := ctx
	if e.cfg.Worker.InvokeTimeoutMin > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.Worker.InvokeTimeoutMin)*time.Minute)
		defer cancel()
	}

	tempPath, finalPath, err := e.store.TempAndFinal(storage.CategoryVariants, ".mp4")
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.runner.Run(invokeCtx, transcodeArgs(p.InputPath, quality.Height(), tempPath), tempPath); err != nil {
		e.store.Discard(tempPath)
		return uuid.Nil, err
	}
	if err := e.store.Commit(tempPath, finalPath); err != nil {
		e.store.Discard(tempPath)
		return uuid.Nil, err
	}
	info, err := e.runner.Probe(ctx, finalPath)
	if err != nil {
		return uuid.Nil, err
	}
	cfg, _ := json.Marshal(map[string]string{"quality": string(quality)})
	artifact, err := e.repo.CreateArtifact(ctx, &models.Artifact{
		VideoID:          p.VideoID,
		Kind:             models.KindTranscode,
		Quality:          quality,
		SourceArtifactID: p.SourceArtifactID,
		StoredPath:       finalPath,
		SizeBytes:        info.SizeBytes,
		DurationSec:      info.DurationSec,
		Config:           cfg,
	})
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "transcode: create artifact")
	}
	if err := e.publish(ctx, finalPath); err != nil {
		return uuid.Nil, err
	}
	return artifact.ArtifactID, nil
}

// crfForHeight trades quality for size down the ladder: higher resolutions
// get lower (higher fidelity) CRF values.
func crfForHeight(height int) int {
	switch height {
	case 1080:
		return 20
	case 720:
		return 22
	default:
		return 24
	}
}

func transcodeArgs(inputPath string, height int, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vf", "scale=-2:" + strconv.Itoa(height),
		"-c:v", "libx264",
		"-crf", strconv.Itoa(crfForHeight(height)),
		"-preset", "veryfast",
		"-c:a", "aac",
		"-b:a", "128k",
		outputPath,
	}
}
