package lrc

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidTimestamp is returned when a timestamp capture is not a digit run
// of an accepted length.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// DecodeTimestamp converts the minute, second and fraction captures of a
// mm:ss.xx timestamp to milliseconds. A two digit fraction is centiseconds,
// a three digit fraction is milliseconds.
func DecodeTimestamp(min, sec, frac string) (int64, error) {
	if !isDigits(min) || !isDigits(sec) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: %q:%q.%q", ErrInvalidTimestamp, min, sec, frac)
	}
	if len(frac) != 2 && len(frac) != 3 {
		return 0, fmt.Errorf("%w: fraction %q must have 2 or 3 digits", ErrInvalidTimestamp, frac)
	}

	m, err := strconv.ParseInt(min, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	s, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	if len(frac) == 2 {
		f *= 10
	}

	return (m*60+s)*1000 + f, nil
}

// ParseTimestamp parses a bare "mm:ss.xx" or "mm:ss.xxx" string.
func ParseTimestamp(s string) (int64, error) {
	m := bareTimestampRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return DecodeTimestamp(m[1], m[2], m[3])
}

// FormatTimestamp renders ms as mm:ss.xx. Minutes grow past two digits when
// needed; negative values clamp to zero.
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	min := ms / 60000
	sec := (ms / 1000) % 60
	cs := (ms % 1000) / 10
	return fmt.Sprintf("%02d:%02d.%02d", min, sec, cs)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
