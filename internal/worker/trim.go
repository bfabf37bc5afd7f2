package worker

import (
	"context"
	"encoding/json"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/pkg/errors"
)

// TrimExecutor re-encodes the input windowed to [start, end]. Bounds arrive
// already normalized to seconds and clamped against the source duration.
type TrimExecutor struct {
	base
}

func (e *TrimExecutor) Execute(ctx context.Context, job *models.Job, params Params, jc JobContext) error {
	p, ok := params.(TrimParams)
	if !ok {
		return errors.Wrapf(ErrBadParams, "trim executor got %T", params)
	}
	jc.ReportProgress(ctx, 10)

	tempPath, finalPath, err := e.store.TempAndFinal(storage.CategoryVariants, ".mp4")
	if err != nil {
		return err
	}
	jc.ReportProgress(ctx, 20)

	if err := e.runner.Run(ctx, trimArgs(p.InputPath, p.StartSec, p.EndSec, tempPath), tempPath); err != nil {
		e.store.Discard(tempPath)
		return err
	}
	jc.ReportProgress(ctx, 70)

	if err := e.store.Commit(tempPath, finalPath); err != nil {
		e.store.Discard(tempPath)
		return err
	}
	jc.ReportProgress(ctx, 80)

	size, err := e.store.FileSize(finalPath)
	if err != nil {
		return err
	}
	cfg, _ := json.Marshal(map[string]float64{"start": p.StartSec, "end": p.EndSec})
	artifact, err := e.repo.CreateArtifact(ctx, &models.Artifact{
		VideoID:          p.VideoID,
		Kind:             models.KindTrim,
		Quality:          models.QualitySource,
		SourceArtifactID: p.SourceArtifactID,
		StoredPath:       finalPath,
		SizeBytes:        size,
		DurationSec:      p.EndSec - p.StartSec,
		Config:           cfg,
	})
	if err != nil {
		return errors.Wrap(err, "trim: create artifact")
	}
	if err := e.publish(ctx, finalPath); err != nil {
		return err
	}
	return jc.Complete(ctx, artifact.ArtifactID)
}

func trimArgs(inputPath string, start, end float64, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "128k",
		outputPath,
	}
}
