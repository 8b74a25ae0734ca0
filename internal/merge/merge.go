package merge

import (
	"context"
	"log"
	"sync"
	"time"

	"quake-stats/internal/metrics"
	"quake-stats/internal/model"
	"quake-stats/internal/source"
	"quake-stats/internal/store"
)

// Merger fans out one time window to every configured source and folds the
// responses into a single deduplicated event set.
type Merger struct {
	Sources []source.Source // fetch + precedence order
	Metrics *metrics.Set
	Window  string // metrics label, "daily" or "weekly"
}

// FetchWindow fetches [start, end) from all sources concurrently. Each
// branch is independently fault-tolerant: a provider failure is logged,
// counted, and contributes zero events — the run never aborts here. The
// merged set keeps the first event per fingerprint, in source order, so the
// first-listed source is authoritative when both networks report the same
// physical quake. Output is deduplicated but unsorted.
func (m *Merger) FetchWindow(ctx context.Context, start, end time.Time) []model.Event {
	results := make([][]model.Event, len(m.Sources))
	var wg sync.WaitGroup
	for i, src := range m.Sources {
		i, src := i, src
		wg.Add(1)
		go func() {
			defer wg.Done()
			evs, err := src.Fetch(ctx, start, end)
			if err != nil {
				log.Printf("fetch %s [%s]: %v (continuing without it)", src.Name(), m.Window, err)
				return
			}
			results[i] = evs
		}()
	}
	wg.Wait()

	d := store.NewDedup()
	var merged []model.Event
	dropped := 0
	for _, evs := range results {
		for _, e := range evs {
			key := e.Fingerprint()
			if d.Seen(key) {
				dropped++
				continue
			}
			d.Mark(key)
			merged = append(merged, e)
		}
	}
	if dropped > 0 {
		m.Metrics.DuplicatesTotal.WithLabelValues(m.Window).Add(float64(dropped))
	}
	return merged
}
