package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseSize parses a human byte size like "500M", "2G", "0.5k" or a plain
// number like "1048576". The suffixes K, M and G are binary (factor 1024)
// and case-insensitive; with a suffix a float value like "1.5G" is allowed.
// Malformed input returns an ErrInvalidArgument error.
func ParseSize(s string) (int64, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if t == "" {
		return 0, fmt.Errorf("%w: empty size", ErrInvalidArgument)
	}

	// suffix -> factor
	var factor int64 = 1
	switch t[len(t)-1] {
	case 'K':
		factor = 1024
		t = t[:len(t)-1]
	case 'M':
		factor = 1024 * 1024
		t = t[:len(t)-1]
	case 'G':
		factor = 1024 * 1024 * 1024
		t = t[:len(t)-1]
	}

	// without suffix: plain byte count
	if factor == 1 {
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: size '%s': %v", ErrInvalidArgument, s, err)
		}
		return n, nil
	}

	// with suffix: float values like "1.5G" are fine
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: size '%s': %v", ErrInvalidArgument, s, err)
	}

	// the int64 conversion is undefined outside the int64 range (and for NaN)
	v := f * float64(factor)
	if math.IsNaN(v) || v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("%w: size '%s' is out of range", ErrInvalidArgument, s)
	}

	// success
	return int64(v), nil
}
