package filters

import (
	"testing"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompiler() *Compiler {
	return NewCompiler("/fonts", 8)
}

func TestCompileTextAndImage(t *testing.T) {
	t.Parallel()

	end := 5.0
	opacity := 0.6
	overlays := []models.OverlaySpec{
		{Type: models.OverlayText, Text: "hello", Start: 1.5, End: &end},
		{Type: models.OverlayImage, ImagePath: "/media/assets/logo.png", Start: 0, Opacity: &opacity},
	}

	graph, err := newTestCompiler().Compile(overlays, nil)
	require.NoError(t, err)

	// text overlays claim no input slots, the image claims the first
	require.Equal(t, []string{"/media/assets/logo.png"}, graph.ExtraInputs)
	assert.Equal(t, "v2", graph.OutputLabel)

	assert.Contains(t, graph.FilterComplex, "[0:v]drawtext=text='hello'")
	assert.Contains(t, graph.FilterComplex, "enable='between(t,1.5,5)'")
	assert.Contains(t, graph.FilterComplex, "enable='between(t,0,1e9)'")
	assert.Contains(t, graph.FilterComplex, "colorchannelmixer=aa=0.6")
	assert.Contains(t, graph.FilterComplex, "[v2]")
}

func TestCompileWatermarkAlwaysLast(t *testing.T) {
	t.Parallel()

	overlays := []models.OverlaySpec{
		{Type: models.OverlayText, Text: "first", Start: 0},
	}
	wm := &models.WatermarkSpec{ImagePath: "/media/assets/wm.png"}

	graph, err := newTestCompiler().Compile(overlays, wm)
	require.NoError(t, err)
	require.Equal(t, []string{"/media/assets/wm.png"}, graph.ExtraInputs)

	// watermark defaults: bottom-right inset, half opacity, always active
	assert.Contains(t, graph.FilterComplex, "overlay=W-w-20:H-h-20")
	assert.Contains(t, graph.FilterComplex, "colorchannelmixer=aa=0.5")
	assert.Contains(t, graph.FilterComplex, "enable='between(t,0,1e9)'")
	assert.Equal(t, "v2", graph.OutputLabel)
}

func TestCompileEmpty(t *testing.T) {
	t.Parallel()

	graph, err := newTestCompiler().Compile(nil, nil)
	require.NoError(t, err)
	assert.True(t, graph.Empty())
}

func TestCompileTooManyInputs(t *testing.T) {
	t.Parallel()

	c := NewCompiler("/fonts", 2)
	overlays := []models.OverlaySpec{
		{Type: models.OverlayImage, ImagePath: "/a.png"},
		{Type: models.OverlayImage, ImagePath: "/b.png"},
	}
	wm := &models.WatermarkSpec{ImagePath: "/c.png"}

	_, err := c.Compile(overlays, wm)
	assert.True(t, errors.Is(err, ErrTooManyInputs))

	// the ceiling counts auxiliary inputs, text stays free
	overlays = append(overlays[:1], models.OverlaySpec{Type: models.OverlayText, Text: "x"})
	_, err = c.Compile(overlays, wm)
	assert.NoError(t, err)
}

func TestCompileTextEscaping(t *testing.T) {
	t.Parallel()

	graph, err := newTestCompiler().Compile([]models.OverlaySpec{
		{Type: models.OverlayText, Text: `it's 10:30`},
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, graph.FilterComplex, `drawtext=text='it\'s 10\:30'`)
}

func TestCompileVideoScale(t *testing.T) {
	t.Parallel()

	graph, err := newTestCompiler().Compile([]models.OverlaySpec{
		{Type: models.OverlayVideo, VideoPath: "/media/assets/pip.mp4", Scale: 0.25},
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, graph.FilterComplex, "scale=iw*0.25:ih*0.25")
}

func TestNormalizePosition(t *testing.T) {
	t.Parallel()

	x, err := normalizePosition("center", "x")
	require.NoError(t, err)
	assert.Equal(t, "(W-w)/2", x)

	y, err := normalizePosition("middle", "y")
	require.NoError(t, err)
	assert.Equal(t, "(H-h)/2", y)

	x, err = normalizePosition("", "x")
	require.NoError(t, err)
	assert.Equal(t, "20", x)

	x, err = normalizePosition("(W-w)-10", "x")
	require.NoError(t, err)
	assert.Equal(t, "(W-w)-10", x)
}

func TestValidateExpression(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateExpression("W-w-20"))
	assert.NoError(t, ValidateExpression("(H-h)/2"))

	for _, expr := range []string{"", "W-w)", "(W-w", "W-", "W;rm", "t*2"} {
		err := ValidateExpression(expr)
		assert.True(t, errors.Is(err, ErrInvalidExpression), "expression %q", expr)
	}
}
