// Package formatting converts between byte counts and human-readable sizes
// such as "10MB".
package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Units are base-1024. "MB" and "MiB" name the same multiple.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above one. Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	if n <= 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	precision = max(precision, 0)

	i := min(int(math.Log(float64(n))/math.Log(1024)), len(units)-1)
	size := float64(n) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes like "512", "1.5KB", "10 mb" or "2GiB".
// A bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	num, unit := s, ""
	if split >= 0 {
		num, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if num == "" {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	unit = strings.ToUpper(unit)
	if len(unit) == 3 && unit[1] == 'I' {
		unit = unit[:1] + unit[2:]
	}
	if unit == "" {
		unit = "B"
	}

	for i, u := range units {
		if u == unit {
			return int64(value * math.Pow(1024, float64(i))), nil
		}
	}
	return 0, fmt.Errorf("unknown byte size unit %q", unit)
}
