package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quake-stats/internal/config"
	"quake-stats/internal/metrics"
	"quake-stats/internal/model"
	"quake-stats/internal/util"
)

// emscFeature is the provider-native seismicportal record. EMSC puts the
// coordinates directly in properties and reports the event time as a string.
// No stable cross-network id is exposed, so EMSC events de-dup purely on the
// minute/magnitude fingerprint — which is what lets the first-listed network
// stay authoritative for quakes both networks detect.
type emscResponse struct {
	Features []emscFeature `json:"features"`
}

type emscFeature struct {
	Properties emscProperties `json:"properties"`
}

type emscProperties struct {
	Mag    *float64 `json:"mag"`
	Region string   `json:"flynn_region"`
	Time   string   `json:"time"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Depth  *float64 `json:"depth"`
	Auth   string   `json:"auth"`
}

type emscSource struct {
	cfg    config.EMSCConfig
	met    *metrics.Set
	client *http.Client
}

func NewEMSC(cfg config.EMSCConfig, met *metrics.Set) *emscSource {
	return &emscSource{
		cfg:    cfg,
		met:    met,
		client: util.NewHTTPClient(timeoutOrDefault(cfg.HTTP.Timeout, 15*time.Second)),
	}
}

func (s *emscSource) Name() string { return "EMSC" }

// Fetch queries the seismicportal fdsnws service for [start, end). EMSC wants
// second-precision ISO timestamps and caps results with an explicit limit.
func (s *emscSource) Fetch(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if base == "" {
		base = "https://www.seismicportal.eu"
	}
	limit := s.cfg.Limit
	if limit <= 0 {
		limit = 2000
	}
	u, err := url.Parse(base + "/fdsnws/event/1/query")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("starttime", start.UTC().Truncate(time.Second).Format(time.RFC3339))
	q.Set("endtime", end.UTC().Truncate(time.Second).Format(time.RFC3339))
	q.Set("minmag", fmt.Sprintf("%.1f", minMagOrDefault(s.cfg.MinMag, config.DefaultMinMag)))
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	var resp emscResponse
	if err := s.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(resp.Features))
	for _, f := range resp.Features {
		ev, ok := s.normalize(f.Properties)
		if !ok {
			s.met.DiscardedTotal.WithLabelValues(s.Name()).Inc()
			continue
		}
		events = append(events, ev)
	}
	s.met.EventsTotal.WithLabelValues(s.Name()).Add(float64(len(events)))
	return events, nil
}

// normalize maps an EMSC properties block onto the canonical event. Records
// missing either coordinate or with an unparseable timestamp are discarded.
func (s *emscSource) normalize(p emscProperties) (model.Event, bool) {
	if p.Lat == nil || p.Lon == nil {
		return model.Event{}, false
	}
	ms, err := parseTimeMillis(p.Time)
	if err != nil {
		return model.Event{}, false
	}
	ev := model.Event{
		Time:   ms,
		Place:  p.Region,
		Lon:    p.Lon,
		Lat:    p.Lat,
		Depth:  p.Depth,
		Source: p.Auth,
	}
	if ev.Source == "" {
		ev.Source = s.Name()
	}
	if p.Mag != nil {
		ev.Mag = *p.Mag
	}
	return ev, true
}

func (s *emscSource) getJSON(ctx context.Context, rawURL string, out any) error {
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
	// EMSC answers 204 when the window holds no events.
	if resp.StatusCode == http.StatusNoContent {
		s.met.FetchTotal.WithLabelValues(s.Name(), "ok").Inc()
		return nil
	}
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.met.FetchTotal.WithLabelValues(s.Name(), "error").Inc()
		return fmt.Errorf("emsc %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		s.met.FetchTotal.WithLabelValues(s.Name(), "error").Inc()
		return fmt.Errorf("emsc decode: %w", err)
	}
	s.met.FetchTotal.WithLabelValues(s.Name(), "ok").Inc()
	return nil
}
