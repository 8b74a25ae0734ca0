package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Event is the normalized representation for all providers. Time and Mag are
// always set on events that survive normalization; Depth, Lon and Lat stay
// nil when the provider did not report them.
type Event struct {
	ID     string   `json:"id,omitempty"` // provider-native id, used for de-dup when present
	Time   int64    `json:"time"`         // epoch milliseconds, primary ordering key
	Mag    float64  `json:"mag"`
	Depth  *float64 `json:"depth"` // km; may be negative in raw feeds, clamped downstream
	Lon    *float64 `json:"lon"`
	Lat    *float64 `json:"lat"`
	Place  string   `json:"place,omitempty"`
	Source string   `json:"source"` // originating network/agency, provenance only
}

// Fingerprint returns the de-dup key: the native id when the provider gave
// one, otherwise a minute-bucket of the event time joined with the magnitude
// rounded to one decimal. Two networks reporting the same physical quake
// almost always land in the same minute with the same rounded magnitude.
func (e Event) Fingerprint() string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%d-%.1f", int64(math.Round(float64(e.Time)/60000)), e.Mag)
}

// DepthScalePoint maps a physical depth breakpoint onto a display position.
type DepthScalePoint struct {
	Depth    float64 `json:"depth"`
	Position float64 `json:"position"`
}

// ScatterPoint is one event projected onto the time-vs-depth plot.
// Mag and DateKey are only populated for the weekly window; Mag is a pointer
// so a weekly magnitude of exactly 0 still serializes as "mag": 0.
type ScatterPoint struct {
	Left    float64  `json:"left"` // 0 = window start, 100 = now
	Depth   float64  `json:"depth"`
	Size    float64  `json:"size"`
	Color   string   `json:"color"`
	Info    string   `json:"info"`
	Mag     *float64 `json:"mag,omitempty"`
	DateKey string   `json:"dateKey,omitempty"`
}

// MapPoint is one event projected onto the geographic replay layer.
type MapPoint struct {
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Mag   float64 `json:"mag"`
	Color string  `json:"color"`
}

// RangeCounts is the weekly fixed-band magnitude breakdown. Band bounds are
// half-open; magnitudes below 0.1 fall into no band at all.
type RangeCounts struct {
	Range1  int `json:"range1"` // [0.1, 3)
	RangeM3 int `json:"range_M3"`
	RangeM4 int `json:"range_M4"`
	RangeM5 int `json:"range_M5"`
	RangeM6 int `json:"range_M6"`
	RangeM7 int `json:"range_M7"`
	RangeM8 int `json:"range_M8"`
	RangeM9 int `json:"range_M9plus"` // [9, inf)
}

// DayBucket is one UTC calendar day of the weekly bar chart.
type DayBucket struct {
	Count    int     `json:"count"`
	MaxMag   float64 `json:"maxMag"`
	DayLabel string  `json:"dayLabel"` // Sun..Sat
	DateKey  string  `json:"dateKey"`  // YYYY-MM-DD
}

// WindowStats is the full statistics bundle for one trailing window.
// Weekly-only fields stay empty/nil on the daily window; the two windows also
// publish their scatter points under different keys, matching what the front
// end consumes. Marshalling goes through the per-window shapes below; the
// tags here drive unmarshalling only.
type WindowStats struct {
	TotalSismos         int               `json:"totalSismos"`
	MagCounts           MagHistogram      `json:"magCounts"`
	MagFilterStats      *RangeCounts      `json:"magFilterStats"`
	WeeklyBarData       []DayBucket       `json:"weeklyBarData"`
	MaxDepth            float64           `json:"maxDepth"`
	GridMaxDepth        float64           `json:"gridMaxDepth"`
	DepthScalePoints    []DepthScalePoint `json:"depthScalePoints"`
	ScatterPlotPoints   []ScatterPoint    `json:"scatterPlotPoints"`
	WeeklyScatterPoints []ScatterPoint    `json:"weeklyScatterPoints"`
	MapReplayPoints     []MapPoint        `json:"mapReplayPoints"`
	Sismos              []Event           `json:"sismos"`
}

// dailyStatsJSON and weeklyStatsJSON are the two serialized shapes of a
// window. The scatter key differs per window but must be present even when
// the window had no events, so omitempty cannot select it.
type dailyStatsJSON struct {
	TotalSismos       int               `json:"totalSismos"`
	MagCounts         MagHistogram      `json:"magCounts"`
	MaxDepth          float64           `json:"maxDepth"`
	GridMaxDepth      float64           `json:"gridMaxDepth"`
	DepthScalePoints  []DepthScalePoint `json:"depthScalePoints"`
	ScatterPlotPoints []ScatterPoint    `json:"scatterPlotPoints"`
	MapReplayPoints   []MapPoint        `json:"mapReplayPoints"`
	Sismos            []Event           `json:"sismos"`
}

type weeklyStatsJSON struct {
	TotalSismos         int               `json:"totalSismos"`
	MagCounts           MagHistogram      `json:"magCounts"`
	MagFilterStats      *RangeCounts      `json:"magFilterStats"`
	WeeklyBarData       []DayBucket       `json:"weeklyBarData"`
	MaxDepth            float64           `json:"maxDepth"`
	GridMaxDepth        float64           `json:"gridMaxDepth"`
	DepthScalePoints    []DepthScalePoint `json:"depthScalePoints"`
	WeeklyScatterPoints []ScatterPoint    `json:"weeklyScatterPoints"`
	MapReplayPoints     []MapPoint        `json:"mapReplayPoints"`
	Sismos              []Event           `json:"sismos"`
}

// MarshalJSON picks the daily or weekly shape based on which scatter slice
// the aggregation populated (the active one is always non-nil, even for an
// empty window). Nil slices render as empty JSON arrays, never null.
func (s WindowStats) MarshalJSON() ([]byte, error) {
	if s.WeeklyScatterPoints != nil || s.MagFilterStats != nil {
		return json.Marshal(weeklyStatsJSON{
			TotalSismos:         s.TotalSismos,
			MagCounts:           s.MagCounts,
			MagFilterStats:      s.MagFilterStats,
			WeeklyBarData:       nonNil(s.WeeklyBarData),
			MaxDepth:            s.MaxDepth,
			GridMaxDepth:        s.GridMaxDepth,
			DepthScalePoints:    nonNil(s.DepthScalePoints),
			WeeklyScatterPoints: nonNil(s.WeeklyScatterPoints),
			MapReplayPoints:     nonNil(s.MapReplayPoints),
			Sismos:              nonNil(s.Sismos),
		})
	}
	return json.Marshal(dailyStatsJSON{
		TotalSismos:       s.TotalSismos,
		MagCounts:         s.MagCounts,
		MaxDepth:          s.MaxDepth,
		GridMaxDepth:      s.GridMaxDepth,
		DepthScalePoints:  nonNil(s.DepthScalePoints),
		ScatterPlotPoints: nonNil(s.ScatterPlotPoints),
		MapReplayPoints:   nonNil(s.MapReplayPoints),
		Sismos:            nonNil(s.Sismos),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// OutputDocument is what one run writes. It fully replaces the previous
// document; nothing is merged across runs.
type OutputDocument struct {
	LastUpdated string      `json:"lastUpdated"` // RFC 3339
	Daily       WindowStats `json:"daily"`
	Weekly      WindowStats `json:"weekly"`
}
