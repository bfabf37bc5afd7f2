package filters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/pkg/errors"
)

var (
	ErrInvalidExpression = errors.New("invalid position expression")
	ErrTooManyInputs     = errors.New("too many overlay inputs")
)

// openEndSentinel stands in for "until the end of the media" inside the
// enable predicate; the tool clamps it to the stream duration.
const openEndSentinel = "1e9"

const (
	defaultFont     = "NotoSans-Regular.ttf"
	defaultFontSize = 32
	defaultColor    = "white"
	defaultCoord    = "20"
)

// Graph is one compiled filter_complex chain: a linear sequence of stages
// rooted at [0:v], plus the ordered auxiliary inputs the chain references by
// input index. Audio never enters the graph; the primary input's audio is
// mapped through and overlay audio is discarded.
type Graph struct {
	FilterComplex string
	ExtraInputs   []string
	OutputLabel   string
}

// Empty reports whether the graph contains no stages.
func (g *Graph) Empty() bool {
	return g.FilterComplex == ""
}

type Compiler struct {
	fontDir   string
	maxInputs int
}

func NewCompiler(fontDir string, maxInputs int) *Compiler {
	return &Compiler{fontDir: fontDir, maxInputs: maxInputs}
}

// Compile turns overlay declarations plus an optional watermark into a
// single chain. Each composite stage consumes the previous stage's output;
// the watermark is compiled as an always-active image overlay and composited
// last. Text overlays add no inputs; every image/video overlay (and the
// watermark) claims the next input index.
func (c *Compiler) Compile(overlays []models.OverlaySpec, watermark *models.WatermarkSpec) (*Graph, error) {
	auxCount := 0
	for i := range overlays {
		if overlays[i].Type != models.OverlayText {
			auxCount++
		}
	}
	if watermark != nil {
		auxCount++
	}
	if auxCount > c.maxInputs {
		return nil, errors.Wrapf(ErrTooManyInputs, "%d auxiliary inputs exceed limit %d", auxCount, c.maxInputs)
	}

	var (
		stages       []string
		extraInputs  []string
		currentLabel = "0:v"
		nextIndex    = 1
	)
	nextLabel := func() string {
		label := fmt.Sprintf("v%d", nextIndex)
		nextIndex++
		return label
	}

	for i := range overlays {
		o := &overlays[i]
		x, err := normalizePosition(o.X, "x")
		if err != nil {
			return nil, err
		}
		y, err := normalizePosition(o.Y, "y")
		if err != nil {
			return nil, err
		}
		out := nextLabel()
		switch o.Type {
		case models.OverlayText:
			stages = append(stages, c.textStage(currentLabel, o, x, y, out))
		case models.OverlayImage:
			extraInputs = append(extraInputs, o.ImagePath)
			stages = append(stages, imageStage(currentLabel, len(extraInputs), o, x, y, out))
		case models.OverlayVideo:
			extraInputs = append(extraInputs, o.VideoPath)
			stages = append(stages, videoStage(currentLabel, len(extraInputs), o, x, y, out))
		default:
			return nil, errors.Errorf("filters: unknown overlay type %q", o.Type)
		}
		currentLabel = out
	}

	if watermark != nil {
		x, err := normalizePositionDefault(watermark.X, "W-w-20")
		if err != nil {
			return nil, err
		}
		y, err := normalizePositionDefault(watermark.Y, "H-h-20")
		if err != nil {
			return nil, err
		}
		extraInputs = append(extraInputs, watermark.ImagePath)
		out := nextLabel()
		stages = append(stages, watermarkStage(currentLabel, len(extraInputs), watermark, x, y, out))
		currentLabel = out
	}

	if len(stages) == 0 {
		return &Graph{}, nil
	}
	return &Graph{
		FilterComplex: strings.Join(stages, ";"),
		ExtraInputs:   extraInputs,
		OutputLabel:   currentLabel,
	}, nil
}

func (c *Compiler) textStage(in string, o *models.OverlaySpec, x, y, out string) string {
	font := o.Font
	if font == "" {
		font = defaultFont
	}
	fontSize := o.FontSize
	if fontSize == 0 {
		fontSize = defaultFontSize
	}
	color := o.Color
	if color == "" {
		color = defaultColor
	}
	parts := []string{
		fmt.Sprintf("drawtext=text='%s'", escapeText(o.Text)),
		fmt.Sprintf("fontfile=%s", filepath.Join(c.fontDir, font)),
		fmt.Sprintf("fontsize=%d", fontSize),
		fmt.Sprintf("fontcolor=%s", color),
		fmt.Sprintf("x=%s", x),
		fmt.Sprintf("y=%s", y),
		enablePredicate(o.Start, o.End),
		"text_shaping=1",
	}
	return fmt.Sprintf("[%s]%s[%s]", in, strings.Join(parts, ":"), out)
}

func imageStage(in string, inputIndex int, o *models.OverlaySpec, x, y, out string) string {
	enable := enablePredicate(o.Start, o.End)
	if o.Opacity != nil && *o.Opacity < 1 {
		return fmt.Sprintf(
			"[%d]format=rgba,colorchannelmixer=aa=%g[img%d];[%s][img%d]overlay=%s:%s:%s[%s]",
			inputIndex, *o.Opacity, inputIndex, in, inputIndex, x, y, enable, out,
		)
	}
	return fmt.Sprintf("[%s][%d]overlay=%s:%s:%s[%s]", in, inputIndex, x, y, enable, out)
}

func videoStage(in string, inputIndex int, o *models.OverlaySpec, x, y, out string) string {
	enable := enablePredicate(o.Start, o.End)
	if o.Scale != 0 && o.Scale != 1.0 {
		return fmt.Sprintf(
			"[%d]scale=iw*%g:ih*%g[vid%d];[%s][vid%d]overlay=%s:%s:%s[%s]",
			inputIndex, o.Scale, o.Scale, inputIndex, in, inputIndex, x, y, enable, out,
		)
	}
	return fmt.Sprintf("[%s][%d]overlay=%s:%s:%s[%s]", in, inputIndex, x, y, enable, out)
}

func watermarkStage(in string, inputIndex int, w *models.WatermarkSpec, x, y, out string) string {
	opacity := w.Opacity
	if opacity == 0 {
		opacity = 0.5
	}
	return fmt.Sprintf(
		"[%d]format=rgba,colorchannelmixer=aa=%g[wm%d];[%s][wm%d]overlay=%s:%s:enable='between(t,0,%s)'[%s]",
		inputIndex, opacity, inputIndex, in, inputIndex, x, y, openEndSentinel, out,
	)
}

func enablePredicate(start float64, end *float64) string {
	if end == nil {
		return fmt.Sprintf("enable='between(t,%g,%s)'", start, openEndSentinel)
	}
	return fmt.Sprintf("enable='between(t,%g,%g)'", start, *end)
}

func escapeText(text string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	return replacer.Replace(text)
}
