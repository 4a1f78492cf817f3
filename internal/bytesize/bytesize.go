// Package bytesize parses and formats human-readable byte sizes such as
// "32MiB" or "512KB". docker/go-units is not used because its parsers treat
// KB and KiB alike, while config values here must keep SI and binary apart.
package bytesize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Binary units.
const (
	KiB int64 = 1 << (10 * (iota + 1))
	MiB
	GiB
	TiB
)

// Format formats b using binary units, e.g. 1536 -> "1.5 KiB".
func Format(b int64) string {
	switch {
	case b >= TiB:
		return formatUnit(b, TiB, "TiB")
	case b >= GiB:
		return formatUnit(b, GiB, "GiB")
	case b >= MiB:
		return formatUnit(b, MiB, "MiB")
	case b >= KiB:
		return formatUnit(b, KiB, "KiB")
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func formatUnit(b, unit int64, suffix string) string {
	v := float64(b) / float64(unit)
	if v >= 100 {
		return fmt.Sprintf("%.0f %s", v, suffix)
	}
	return fmt.Sprintf("%.1f %s", v, suffix)
}

// Parse parses a byte string. Binary suffixes (KiB, MiB, GiB, TiB) use
// powers of 1024, SI suffixes (KB, MB, GB, TB) powers of 1000. A bare number
// or a "B" suffix is taken as bytes.
func Parse(s string) (int64, error) {
	orig := s
	s = strings.TrimSpace(s)

	units := []struct {
		suffix string
		mult   int64
	}{
		{"TiB", TiB}, {"GiB", GiB}, {"MiB", MiB}, {"KiB", KiB},
		{"TB", 1000 * 1000 * 1000 * 1000}, {"GB", 1000 * 1000 * 1000}, {"MB", 1000 * 1000}, {"KB", 1000},
		{"B", 1},
	}

	var multiplier int64 = 1
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			multiplier = u.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, fmt.Errorf("invalid byte string: %q", orig)
	}
	size := value * float64(multiplier)
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("byte string out of range: %q", orig)
	}
	return int64(size), nil
}
