package metrics

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Set owns one run's counters on a private registry, so tests and the
// optional ticker loop never fight over global collector state.
type Set struct {
	reg *prometheus.Registry

	FetchTotal      *prometheus.CounterVec // provider requests by provider/status
	EventsTotal     *prometheus.CounterVec // normalized events by provider
	DiscardedTotal  *prometheus.CounterVec // malformed records dropped by provider
	DuplicatesTotal *prometheus.CounterVec // fingerprint collisions by window
	RunDuration     prometheus.Summary
	LastSuccess     prometheus.Gauge
}

func New() *Set {
	s := &Set{reg: prometheus.NewRegistry()}
	s.FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quake_stats",
		Name:      "fetch_requests_total",
		Help:      "Provider fetches by status",
	}, []string{"provider", "status"})
	s.EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quake_stats",
		Name:      "events_normalized_total",
		Help:      "Records that survived normalization",
	}, []string{"provider"})
	s.DiscardedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quake_stats",
		Name:      "records_discarded_total",
		Help:      "Malformed provider records dropped at the adapter boundary",
	}, []string{"provider"})
	s.DuplicatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quake_stats",
		Name:      "duplicates_total",
		Help:      "Events discarded as duplicate detections",
	}, []string{"window"})
	s.RunDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "quake_stats",
		Name:      "run_duration_seconds",
		Help:      "Time spent per pipeline run",
	})
	s.LastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "quake_stats",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful run",
	})
	s.reg.MustRegister(s.FetchTotal, s.EventsTotal, s.DiscardedTotal, s.DuplicatesTotal, s.RunDuration, s.LastSuccess)
	return s
}

// MarkSuccess records a completed run.
func (s *Set) MarkSuccess(now time.Time) {
	s.LastSuccess.Set(float64(now.Unix()))
}

// Snapshot renders the registry in Prometheus text exposition format.
func (s *Set) Snapshot() (string, error) {
	mfs, err := s.reg.Gather()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// WriteTextfile writes the snapshot for a node-exporter style textfile
// collector. Temp-and-rename so the collector never reads a torn file.
func (s *Set) WriteTextfile(path string) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".quake-stats-*.prom")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(snap); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
