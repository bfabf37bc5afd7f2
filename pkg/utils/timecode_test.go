package utils

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimecode(t *testing.T) {
	t.Parallel()

	sec, err := ParseTimecode("00:00:05")
	require.NoError(t, err)
	assert.Equal(t, 5.0, sec)

	sec, err = ParseTimecode("01:02:03.5")
	require.NoError(t, err)
	assert.Equal(t, 3723.5, sec)

	sec, err = ParseTimecode("12.25")
	require.NoError(t, err)
	assert.Equal(t, 12.25, sec)

	_, err = ParseTimecode("not a time")
	assert.True(t, errors.Is(err, ErrInvalidTimecode))

	_, err = ParseTimecode("-3")
	assert.True(t, errors.Is(err, ErrInvalidTimecode))

	// minutes field must be two digits
	_, err = ParseTimecode("1:2:03")
	assert.True(t, errors.Is(err, ErrInvalidTimecode))
}

func TestNormalizeRange(t *testing.T) {
	t.Parallel()

	start, end, err := NormalizeRange("2", "15", 10)
	require.NoError(t, err)
	assert.Equal(t, 2.0, start)
	assert.Equal(t, 10.0, end)

	_, _, err = NormalizeRange("5", "5", 10)
	assert.True(t, errors.Is(err, ErrInvalidRange))

	// inverted bounds are rejected, never swapped
	_, _, err = NormalizeRange("8", "3", 10)
	assert.True(t, errors.Is(err, ErrInvalidRange))

	// both bounds past the end collapse to an empty window
	_, _, err = NormalizeRange("20", "30", 10)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestTimecodeUnmarshalJSON(t *testing.T) {
	t.Parallel()

	var payload struct {
		Start Timecode `json:"start"`
		End   Timecode `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"00:00:05","end":9.5}`), &payload))
	assert.Equal(t, Timecode("00:00:05"), payload.Start)
	assert.Equal(t, Timecode("9.5"), payload.End)

	err := json.Unmarshal([]byte(`{"start":[1]}`), &payload)
	require.Error(t, err)
}
