package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quake-stats/internal/merge"
	"quake-stats/internal/metrics"
	"quake-stats/internal/model"
	"quake-stats/internal/sink"
	"quake-stats/internal/source"
	"quake-stats/internal/stats"
)

// The two trailing windows every run recomputes. Fixed by the consumer
// contract, not configuration.
const (
	DailyWindow  = 24 * time.Hour
	WeeklyWindow = 7 * 24 * time.Hour
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type Pipeline struct {
	Sources []source.Source // fetch + de-dup precedence order
	Sink    sink.Sink
	Metrics *metrics.Set
}

// Run executes one full cycle: both windows concurrently (they share no
// state), then a single atomic write of the assembled document. Provider
// unavailability is absorbed inside the merge layer; an error out of Run is
// fatal for the run and means nothing was written.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*model.OutputDocument, error) {
	start := time.Now()
	defer func() { p.Metrics.RunDuration.Observe(time.Since(start).Seconds()) }()

	var (
		wg     sync.WaitGroup
		daily  model.WindowStats
		weekly model.WindowStats
	)
	compute := func(window time.Duration, isWeekly bool, label string, out *model.WindowStats) {
		defer wg.Done()
		m := &merge.Merger{Sources: p.Sources, Metrics: p.Metrics, Window: label}
		events := m.FetchWindow(ctx, now.Add(-window), now)
		*out = stats.Aggregate(events, now, window, isWeekly)
	}
	wg.Add(2)
	go compute(DailyWindow, false, "daily", &daily)
	go compute(WeeklyWindow, true, "weekly", &weekly)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &model.OutputDocument{
		LastUpdated: now.UTC().Format(isoMillis),
		Daily:       daily,
		Weekly:      weekly,
	}
	if err := p.Sink.Write(ctx, doc); err != nil {
		return nil, fmt.Errorf("write %s sink: %w", p.Sink.Name(), err)
	}
	p.Metrics.MarkSuccess(time.Now())
	return doc, nil
}
