package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quake-stats/internal/config"
	"quake-stats/internal/metrics"
)

const usgsFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "id": "us7000test",
      "properties": {"mag": 5.4, "place": "35 km SSE of Somewhere", "time": 1780000000000},
      "geometry": {"type": "Point", "coordinates": [139.7, 35.6, 10.0]}
    },
    {
      "id": "us7000null",
      "properties": {"mag": 2.0, "time": 1780000100000},
      "geometry": null
    },
    {
      "id": "us7000nomag",
      "properties": {"mag": null, "time": 1780000200000},
      "geometry": {"type": "Point", "coordinates": [10.0, 20.0]}
    },
    {
      "id": "us7000nocoord",
      "properties": {"mag": 3.0, "time": 1780000300000},
      "geometry": {"type": "Point", "coordinates": [null, 20.0, 5.0]}
    }
  ]
}`

func usgsWindow() (time.Time, time.Time) {
	end := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return end.Add(-24 * time.Hour), end
}

func TestUSGS_FetchNormalizes(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"format":       q.Get("format"),
			"starttime":    q.Get("starttime"),
			"minmagnitude": q.Get("minmagnitude"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(usgsFixture))
	}))
	defer srv.Close()

	s := NewUSGS(config.USGSConfig{BaseURL: srv.URL}, metrics.New())
	start, end := usgsWindow()
	events, err := s.Fetch(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotQuery["format"] != "geojson" {
		t.Errorf("format param: got %q", gotQuery["format"])
	}
	if gotQuery["minmagnitude"] != "1.0" {
		t.Errorf("minmagnitude param: got %q, want 1.0", gotQuery["minmagnitude"])
	}
	if gotQuery["starttime"] != "2026-03-14T12:00:00.000Z" {
		t.Errorf("starttime param: got %q", gotQuery["starttime"])
	}

	// Null geometry and null coordinate entries are discarded; a null
	// magnitude is kept as 0.
	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}
	e := events[0]
	if e.ID != "us7000test" || e.Time != 1780000000000 || e.Mag != 5.4 {
		t.Errorf("event: got %+v", e)
	}
	if e.Lon == nil || *e.Lon != 139.7 || e.Lat == nil || *e.Lat != 35.6 {
		t.Errorf("coords: got lon=%v lat=%v", e.Lon, e.Lat)
	}
	if e.Depth == nil || *e.Depth != 10.0 {
		t.Errorf("depth: got %v", e.Depth)
	}
	if e.Source != "USGS" {
		t.Errorf("source tag: got %q", e.Source)
	}
	if events[1].ID != "us7000nomag" || events[1].Mag != 0 {
		t.Errorf("magless event: got %+v", events[1])
	}
}

func TestUSGS_FetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewUSGS(config.USGSConfig{BaseURL: srv.URL}, metrics.New())
	start, end := usgsWindow()
	if _, err := s.Fetch(context.Background(), start, end); err == nil {
		t.Fatal("expected error on 503, got nil")
	}
}

func TestUSGS_MinMagOverride(t *testing.T) {
	var gotMin string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMin = r.URL.Query().Get("minmagnitude")
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	s := NewUSGS(config.USGSConfig{BaseURL: srv.URL, MinMag: 0.1}, metrics.New())
	start, end := usgsWindow()
	if _, err := s.Fetch(context.Background(), start, end); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotMin != "0.1" {
		t.Errorf("minmagnitude: got %q, want 0.1", gotMin)
	}
}
