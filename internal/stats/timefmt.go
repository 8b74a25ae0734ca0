package stats

import (
	"fmt"
	"time"
)

// FormatEventTime renders an epoch-millisecond timestamp as the display pair
// the scatter tooltips embed: a D/M/YYYY date (no zero padding) and a
// 24-hour HH:MM:SS clock with the zone name. Always UTC so output is
// identical regardless of where the pipeline runs.
func FormatEventTime(epochMillis int64) (date, clock string) {
	t := time.UnixMilli(epochMillis).UTC()
	date = fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
	clock = t.Format("15:04:05 MST")
	return date, clock
}
