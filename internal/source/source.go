package source

import (
	"context"
	"fmt"
	"time"

	"quake-stats/internal/config"
	"quake-stats/internal/metrics"
	"quake-stats/internal/model"
)

// Source is one seismological network adapter. Fetch returns the normalized
// events for the half-open interval [start, end); malformed records are
// dropped inside the adapter and never surface.
type Source interface {
	Name() string
	Fetch(ctx context.Context, start, end time.Time) ([]model.Event, error)
}

func NewFromConfig(c config.SourceConfig, met *metrics.Set) (Source, error) {
	switch c.Type {
	case "usgs":
		return NewUSGS(c.USGS, met), nil
	case "emsc":
		return NewEMSC(c.EMSC, met), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", c.Type)
	}
}
