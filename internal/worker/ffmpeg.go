package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/pkg/errors"
)

var ErrExternalTool = errors.New("external tool failure")

// stderrTailLines bounds how much of the tool's diagnostic stream is kept
// for the failure message.
const stderrTailLines = 40

// Runner invokes ffmpeg/ffprobe non-interactively with discrete arguments;
// no user-controlled string ever passes through a shell. Exit status is the
// primary success signal, and a zero exit is only trusted when the output
// file exists and is non-empty.
type Runner struct {
	ffmpegBin  string
	ffprobeBin string
	log        logger.Logger
}

func NewRunner(ffmpegBin, ffprobeBin string, log logger.Logger) *Runner {
	return &Runner{ffmpegBin: ffmpegBin, ffprobeBin: ffprobeBin, log: log}
}

// Run executes one ffmpeg invocation and verifies its output.
func (r *Runner) Run(ctx context.Context, args []string, outputPath string) error {
	cmd := exec.CommandContext(ctx, r.ffmpegBin, args...)
	tail := newTailBuffer(stderrTailLines)
	cmd.Stderr = tail
	r.log.Infof("running %s %s", r.ffmpegBin, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(ErrExternalTool, "%v: %s", err, tail.String())
	}
	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return errors.Wrapf(ErrExternalTool, "tool exited 0 but output %q is missing or empty", outputPath)
	}
	return nil
}

type ProbeInfo struct {
	DurationSec float64
	SizeBytes   int64
}

// Probe reads container duration and size from ffprobe's JSON output.
func (r *Runner) Probe(ctx context.Context, path string) (*ProbeInfo, error) {
	cmd := exec.CommandContext(ctx, r.ffprobeBin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "format=duration,size",
		"-of", "json",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(ErrExternalTool, "ffprobe: %v: %s", err, stderr.String())
	}
	var out struct {
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
		} `json:"format"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, errors.Wrap(err, "ffprobe output parse")
	}
	duration, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrExternalTool, "ffprobe duration %q", out.Format.Duration)
	}
	size, _ := strconv.ParseInt(out.Format.Size, 10, 64)
	return &ProbeInfo{DurationSec: duration, SizeBytes: size}, nil
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', -1, 64)
}

// tailBuffer is an io.Writer keeping only the last N lines written to it.
// ffmpeg terminates its periodic progress stats with a bare carriage return,
// so \r counts as a line break too; otherwise the whole stream of a long
// encode would pile up as one unfinished line.
type tailBuffer struct {
	max     int
	lines   []string
	partial string
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	s := t.partial + string(p)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	parts := strings.Split(s, "\n")
	t.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		t.lines = append(t.lines, line)
	}
	if overflow := len(t.lines) - t.max; overflow > 0 {
		t.lines = t.lines[overflow:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	if t.partial == "" {
		return strings.Join(t.lines, "\n")
	}
	return strings.Join(append(append([]string{}, t.lines...), t.partial), "\n")
}
