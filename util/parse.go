package util

import (
	"strconv"
	"strings"
)

var byteUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize reads a binary size like "64KB", "1m" or "1024" as a byte
// count. Anything it cannot read, or a negative number, gives fallback.
func ParseSize(s string, fallback int64) int64 {
	s = strings.TrimSpace(s)
	digits := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if digits < 0 {
		digits = len(s)
	}
	if digits == 0 {
		return fallback
	}

	unit, ok := byteUnits[strings.ToUpper(strings.TrimSpace(s[digits:]))]
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(s[:digits], 10, 64)
	if err != nil || n > (1<<62)/unit {
		return fallback
	}
	return n * unit
}

// MaskSecret shows the first keep bytes of s followed by "***". Values not
// longer than keep are hidden completely.
func MaskSecret(s string, keep int) string {
	if keep < 0 || len(s) <= keep {
		return "***"
	}
	return s[:keep] + "***"
}
