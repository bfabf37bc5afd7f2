package worker

import (
	"context"
	"encoding/json"

	"github.com/clipforge/clipforge/internal/filters"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/pkg/errors"
)

// OverlayExecutor composites text/image/video overlays and an optional
// watermark in one invocation. Audio comes from the primary input only;
// overlay audio tracks are discarded so the output duration stays bound to
// the primary stream.
type OverlayExecutor struct {
	base
	compiler *filters.Compiler
}

func (e *OverlayExecutor) Execute(ctx context.Context, job *models.Job, params Params, jc JobContext) error {
	p, ok := params.(OverlayParams)
	if !ok {
		return errors.Wrapf(ErrBadParams, "overlay executor got %T", params)
	}
	jc.ReportProgress(ctx, 10)

	graph, err := e.compiler.Compile(p.Overlays, p.Watermark)
	if err != nil {
		// Declarations were validated at submission; a failure here is a defect.
		return errors.Wrap(err, "overlay: recompile")
	}
	jc.ReportProgress(ctx, 20)

	tempPath, finalPath, err := e.store.TempAndFinal(storage.CategoryVariants, ".mp4")
	if err != nil {
		return err
	}
	if err := e.runner.Run(ctx, overlayArgs(p.InputPath, graph, tempPath), tempPath); err != nil {
		e.store.Discard(tempPath)
		return err
	}
	jc.ReportProgress(ctx, 70)

	if err := e.store.Commit(tempPath, finalPath); err != nil {
		e.store.Discard(tempPath)
		return err
	}
	jc.ReportProgress(ctx, 80)

	info, err := e.runner.Probe(ctx, finalPath)
	if err != nil {
		return err
	}
	kind := models.KindOverlay
	if len(p.Overlays) == 0 && p.Watermark != nil {
		kind = models.KindWatermark
	}
	cfg, _ := json.Marshal(map[string]interface{}{
		"overlays":  p.Overlays,
		"watermark": p.Watermark,
	})
	artifact, err := e.repo.CreateArtifact(ctx, &models.Artifact{
		VideoID:          p.VideoID,
		Kind:             kind,
		Quality:          models.QualitySource,
		SourceArtifactID: p.SourceArtifactID,
		StoredPath:       finalPath,
		SizeBytes:        info.SizeBytes,
		DurationSec:      info.DurationSec,
		Config:           cfg,
	})
	if err != nil {
		return errors.Wrap(err, "overlay: create artifact")
	}
	if err := e.publish(ctx, finalPath); err != nil {
		return err
	}
	return jc.Complete(ctx, artifact.ArtifactID)
}

func overlayArgs(inputPath string, graph *filters.Graph, outputPath string) []string {
	args := []string{"-y", "-i", inputPath}
	for _, extra := range graph.ExtraInputs {
		args = append(args, "-i", extra)
	}
	if graph.Empty() {
		args = append(args, "-map", "0:v")
	} else {
		args = append(args, "-filter_complex", graph.FilterComplex, "-map", "["+graph.OutputLabel+"]")
	}
	args = append(args,
		"-map", "0:a?",
		"-shortest",
		"-c:v", "libx264",
		"-crf", "20",
		"-preset", "veryfast",
		"-c:a", "copy",
		outputPath,
	)
	return args
}
