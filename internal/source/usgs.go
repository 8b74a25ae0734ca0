package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quake-stats/internal/config"
	"quake-stats/internal/metrics"
	"quake-stats/internal/model"
	"quake-stats/internal/util"
)

const usgsTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// usgsFeature is the provider-native GeoJSON record. Pointer fields so a
// missing value is distinguishable from zero; this shape never leaves the
// adapter.
type usgsResponse struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string         `json:"id"`
	Properties usgsProperties `json:"properties"`
	Geometry   *usgsGeometry  `json:"geometry"`
}

type usgsProperties struct {
	Mag   *float64 `json:"mag"`
	Place string   `json:"place"`
	Time  *int64   `json:"time"` // already epoch milliseconds
}

type usgsGeometry struct {
	Coordinates []*float64 `json:"coordinates"` // lon, lat, depth
}

type usgsSource struct {
	cfg    config.USGSConfig
	met    *metrics.Set
	client *http.Client
}

func NewUSGS(cfg config.USGSConfig, met *metrics.Set) *usgsSource {
	return &usgsSource{
		cfg:    cfg,
		met:    met,
		client: util.NewHTTPClient(timeoutOrDefault(cfg.HTTP.Timeout, 15*time.Second)),
	}
}

func (s *usgsSource) Name() string { return "USGS" }

// Fetch queries the fdsnws event service for [start, end). USGS takes full
// ISO timestamps with milliseconds.
func (s *usgsSource) Fetch(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if base == "" {
		base = "https://earthquake.usgs.gov"
	}
	u, err := url.Parse(base + "/fdsnws/event/1/query")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("format", "geojson")
	q.Set("starttime", start.UTC().Format(usgsTimeLayout))
	q.Set("endtime", end.UTC().Format(usgsTimeLayout))
	q.Set("minmagnitude", fmt.Sprintf("%.1f", minMagOrDefault(s.cfg.MinMag, config.DefaultMinMag)))
	u.RawQuery = q.Encode()

	var resp usgsResponse
	if err := s.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(resp.Features))
	for _, f := range resp.Features {
		ev, ok := s.normalize(f)
		if !ok {
			s.met.DiscardedTotal.WithLabelValues(s.Name()).Inc()
			continue
		}
		events = append(events, ev)
	}
	s.met.EventsTotal.WithLabelValues(s.Name()).Add(float64(len(events)))
	return events, nil
}

// normalize maps one GeoJSON feature onto the canonical event. Features
// without usable geometry or without a timestamp are discarded; a missing
// magnitude is kept as 0 (classified into the low band downstream).
func (s *usgsSource) normalize(f usgsFeature) (model.Event, bool) {
	if f.Geometry == nil || len(f.Geometry.Coordinates) < 2 {
		return model.Event{}, false
	}
	lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
	if lon == nil || lat == nil {
		return model.Event{}, false
	}
	if f.Properties.Time == nil {
		return model.Event{}, false
	}
	ev := model.Event{
		ID:     f.ID,
		Time:   *f.Properties.Time,
		Place:  f.Properties.Place,
		Lon:    lon,
		Lat:    lat,
		Source: s.Name(),
	}
	if f.Properties.Mag != nil {
		ev.Mag = *f.Properties.Mag
	}
	if len(f.Geometry.Coordinates) > 2 && f.Geometry.Coordinates[2] != nil {
		ev.Depth = f.Geometry.Coordinates[2]
	}
	return ev, true
}

func (s *usgsSource) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if ua := s.cfg.HTTP.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.met.FetchTotal.WithLabelValues(s.Name(), "error").Inc()
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.met.FetchTotal.WithLabelValues(s.Name(), "error").Inc()
		return fmt.Errorf("usgs %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		s.met.FetchTotal.WithLabelValues(s.Name(), "error").Inc()
		return fmt.Errorf("usgs decode: %w", err)
	}
	s.met.FetchTotal.WithLabelValues(s.Name(), "ok").Inc()
	return nil
}
