package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"quake-stats/internal/model"
)

// weekdayLabels is fixed display configuration for the weekly bar chart,
// indexed by time.Weekday (Sunday = 0).
var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// depthScale is the non-linear depth→display-position calibration table.
// Breakpoints follow the crust/mantle bands the front end draws.
var depthScale = []model.DepthScalePoint{
	{Depth: 0, Position: 0},
	{Depth: 10, Position: 10},
	{Depth: 20, Position: 20},
	{Depth: 50, Position: 35},
	{Depth: 100, Position: 50},
	{Depth: 400, Position: 70},
	{Depth: 500, Position: 78},
	{Depth: 600, Position: 86},
	{Depth: 1000, Position: 100},
}

const dateKeyLayout = "2006-01-02"

// Aggregate computes the full statistics bundle for one trailing window over
// an already-deduplicated event set. Events are sorted ascending by time
// (stable, so provider-deterministic input order makes output reproducible)
// before any projection is derived. Empty input yields well-formed zero
// stats; nothing here can fail.
func Aggregate(events []model.Event, now time.Time, window time.Duration, weekly bool) model.WindowStats {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	st := model.WindowStats{
		TotalSismos:     len(sorted),
		MagCounts:       magHistogram(sorted),
		MapReplayPoints: []model.MapPoint{},
		Sismos:          sorted,
	}

	if weekly {
		st.MagFilterStats = rangeCounts(sorted)
		st.WeeklyBarData = dayBuckets(sorted, now)
	}

	st.MaxDepth = maxAbsDepth(sorted)
	st.GridMaxDepth = depthScale[len(depthScale)-1].Depth
	for _, p := range depthScale {
		if p.Depth >= st.MaxDepth {
			st.GridMaxDepth = p.Depth
			break
		}
	}
	for _, p := range depthScale {
		if p.Depth <= st.GridMaxDepth {
			st.DepthScalePoints = append(st.DepthScalePoints, p)
		}
	}

	scatter := make([]model.ScatterPoint, 0, len(sorted))
	winMs := float64(window.Milliseconds())
	nowMs := now.UnixMilli()
	for _, e := range sorted {
		depth := 0.0
		if e.Depth != nil && *e.Depth > 0 {
			depth = *e.Depth
		}
		size := 4 + 1.5*e.Mag
		if weekly {
			size = 3 + 1.2*e.Mag
		}
		color := Color(e.Mag)
		date, clock := FormatEventTime(e.Time)
		p := model.ScatterPoint{
			Left:  (1 - float64(nowMs-e.Time)/winMs) * 100,
			Depth: depth,
			Size:  size,
			Color: color,
			Info:  fmt.Sprintf("M%.1f @ %.1fkm<br>%s<br>%s", e.Mag, depth, date, clock),
		}
		if weekly {
			m := e.Mag
			p.Mag = &m
			p.DateKey = time.UnixMilli(e.Time).UTC().Format(dateKeyLayout)
		}
		scatter = append(scatter, p)

		if e.Lon != nil && e.Lat != nil {
			st.MapReplayPoints = append(st.MapReplayPoints, model.MapPoint{
				Lon: *e.Lon, Lat: *e.Lat, Mag: e.Mag, Color: color,
			})
		}
	}
	if weekly {
		st.WeeklyScatterPoints = scatter
	} else {
		st.ScatterPlotPoints = scatter
	}
	return st
}

// magHistogram buckets events by floor(mag) and emits buckets ascending by
// the numeric suffix of their "M<n>" key.
func magHistogram(events []model.Event) model.MagHistogram {
	counts := make(map[int]int)
	floors := make([]int, 0, 8)
	for _, e := range events {
		f := int(math.Floor(e.Mag))
		if _, ok := counts[f]; !ok {
			floors = append(floors, f)
		}
		counts[f]++
	}
	sort.Ints(floors)
	h := make(model.MagHistogram, 0, len(floors))
	for _, f := range floors {
		h = append(h, model.MagCount{Key: fmt.Sprintf("M%d", f), Count: counts[f]})
	}
	return h
}

// rangeCounts fills the weekly fixed bands. Magnitudes below 0.1 fall into
// no band; they still show up in the total and the histogram.
func rangeCounts(events []model.Event) *model.RangeCounts {
	rc := &model.RangeCounts{}
	for _, e := range events {
		switch m := e.Mag; {
		case m >= 9.0:
			rc.RangeM9++
		case m >= 8.0:
			rc.RangeM8++
		case m >= 7.0:
			rc.RangeM7++
		case m >= 6.0:
			rc.RangeM6++
		case m >= 5.0:
			rc.RangeM5++
		case m >= 4.0:
			rc.RangeM4++
		case m >= 3.0:
			rc.RangeM3++
		case m >= 0.1:
			rc.Range1++
		}
	}
	return rc
}

// dayBuckets produces exactly 7 UTC calendar-day buckets, today plus the six
// days before it, ascending. Empty days stay at count 0 / maxMag 0; events
// whose UTC date falls outside the 7 keys are ignored.
func dayBuckets(events []model.Event, now time.Time) []model.DayBucket {
	buckets := make([]model.DayBucket, 7)
	idx := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		d := now.UTC().Add(-time.Duration(6-i) * 24 * time.Hour)
		key := d.Format(dateKeyLayout)
		buckets[i] = model.DayBucket{DayLabel: weekdayLabels[int(d.Weekday())], DateKey: key}
		idx[key] = i
	}
	for _, e := range events {
		key := time.UnixMilli(e.Time).UTC().Format(dateKeyLayout)
		i, ok := idx[key]
		if !ok {
			continue
		}
		buckets[i].Count++
		if e.Mag > buckets[i].MaxMag {
			buckets[i].MaxMag = e.Mag
		}
	}
	return buckets
}

func maxAbsDepth(events []model.Event) float64 {
	max := 0.0
	for _, e := range events {
		if e.Depth == nil {
			continue
		}
		if d := math.Abs(*e.Depth); d > max {
			max = d
		}
	}
	return max
}
