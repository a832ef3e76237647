package util

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix string
	mult   int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses "25MB", "512KB", "2GB" or a plain byte count. It returns
// defaultBytes for empty, malformed or negative input.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}
	mult := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return defaultBytes
	}
	return n * mult
}

// FormatSize renders n bytes with the largest unit that keeps it >= 1.
func FormatSize(n int64) string {
	for _, u := range sizeUnits[:3] {
		if n >= u.mult {
			return fmt.Sprintf("%.1f%s", float64(n)/float64(u.mult), u.suffix)
		}
	}
	return fmt.Sprintf("%dB", n)
}

// MaskSecret keeps the first visiblePrefix runes of s and masks the rest.
// Strings no longer than visiblePrefix are fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	r := []rune(s)
	if len(r) <= visiblePrefix {
		return "***"
	}
	return string(r[:visiblePrefix]) + "***"
}
