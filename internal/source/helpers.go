package source

import (
	"fmt"
	"strings"
	"time"
)

// parseTimeMillis handles the timestamp shapes EMSC emits: RFC 3339 with or
// without fractional seconds, plus a space-separated fallback some catalog
// mirrors use. Returns epoch milliseconds.
func parseTimeMillis(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unsupported time: %s", s)
}

func minMagOrDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func timeoutOrDefault(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
