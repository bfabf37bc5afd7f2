package utils

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrInvalidTimecode = errors.New("invalid timecode")
	ErrInvalidRange    = errors.New("invalid time range")
)

var timecodeRegexp = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2}(?:\.\d+)?)$`)

// Timecode carries a raw time expression from a request: either a JSON
// number of seconds or a "HH:MM:SS[.sss]" string.
type Timecode string

func (t *Timecode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Timecode(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Timecode(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	return errors.Wrapf(ErrInvalidTimecode, "unsupported timecode token %s", string(data))
}

// ParseTimecode converts a timecode to seconds. Accepts "HH:MM:SS[.sss]" or
// a plain non-negative number of seconds.
func ParseTimecode(value string) (float64, error) {
	if m := timecodeRegexp.FindStringSubmatch(value); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidTimecode, "%q", value)
		}
		return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
	}
	sec, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidTimecode, "%q", value)
	}
	if sec < 0 {
		return 0, errors.Wrapf(ErrInvalidTimecode, "negative seconds %q", value)
	}
	return sec, nil
}

// ClampTimecode clamps seconds into [0, duration].
func ClampTimecode(sec, duration float64) float64 {
	if sec < 0 {
		return 0
	}
	if sec > duration {
		return duration
	}
	return sec
}

// NormalizeRange parses, clamps and orders a trim window against the media
// duration. Equal or inverted bounds after clamping are rejected, never
// swapped.
func NormalizeRange(start, end Timecode, duration float64) (float64, float64, error) {
	startSec, err := ParseTimecode(string(start))
	if err != nil {
		return 0, 0, err
	}
	endSec, err := ParseTimecode(string(end))
	if err != nil {
		return 0, 0, err
	}
	startSec = ClampTimecode(startSec, duration)
	endSec = ClampTimecode(endSec, duration)
	if startSec >= endSec {
		return 0, 0, errors.Wrapf(ErrInvalidRange, "start %.3f must be less than end %.3f", startSec, endSec)
	}
	return startSec, endSec, nil
}
