package stats

import "math"

// Magnitude display colors, one per band. The historical table also carried
// a white fallback below the 2.0 band, but the non-positive guard already
// intercepts everything that could reach it, so the two low branches collapse
// into the single colorLow default.
const (
	colorLow    = "#08e108" // also the band for anything below 4.0
	colorYellow = "yellow"
	colorOrange = "orange"
	colorRed    = "#ff0000"
	colorOrnRed = "#ff4500"
	colorOrchid = "#da70d6"
	colorCyan   = "#00ffff"
)

// Color maps a magnitude onto its display color. Total: NaN and non-positive
// magnitudes land in the low band, thresholds are evaluated highest first.
func Color(mag float64) string {
	if math.IsNaN(mag) || mag <= 0 {
		return colorLow
	}
	switch {
	case mag >= 9.0:
		return colorCyan
	case mag >= 8.0:
		return colorOrchid
	case mag >= 7.0:
		return colorOrnRed
	case mag >= 6.0:
		return colorRed
	case mag >= 5.0:
		return colorOrange
	case mag >= 4.0:
		return colorYellow
	}
	return colorLow
}
