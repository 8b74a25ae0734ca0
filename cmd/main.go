package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"quake-stats/internal/config"
	"quake-stats/internal/metrics"
	"quake-stats/internal/pipeline"
	"quake-stats/internal/sink"
	"quake-stats/internal/source"
)

// Version is set at build time via -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	var (
		cfgPath  = flag.String("config", "", "path to YAML config (empty = built-in defaults)")
		outPath  = flag.String("out", "", "override output document path")
		interval = flag.Duration("interval", 0, "rerun every interval; 0 runs once (external scheduler)")
	)
	flag.Parse()

	log.Printf("quake-stats %s starting...", Version)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *outPath != "" {
		cfg.Output.Path = *outPath
	}

	met := metrics.New()

	srcs := make([]source.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		s, err := source.NewFromConfig(sc, met)
		if err != nil {
			log.Fatalf("build source %q: %v", sc.Type, err)
		}
		srcs = append(srcs, s)
		log.Printf("configured source: %s", s.Name())
	}

	p := &pipeline.Pipeline{
		Sources: srcs,
		Sink:    sink.NewFile(cfg.Output),
		Metrics: met,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runOnce := func() error {
		runID := uuid.NewString()
		start := time.Now()
		doc, err := p.Run(ctx, time.Now())
		if err != nil {
			return err
		}
		log.Printf("run %s done in %s: %d sismos (24h), %d sismos (7d) -> %s",
			runID, time.Since(start).Truncate(time.Millisecond),
			doc.Daily.TotalSismos, doc.Weekly.TotalSismos, cfg.Output.Path)

		if cfg.Metrics.Enable {
			if cfg.Metrics.TextfilePath != "" {
				if err := met.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
					log.Printf("metrics textfile: %v", err)
				}
			} else if snap, err := met.Snapshot(); err == nil && snap != "" {
				log.Printf("metrics snapshot:\n%s", snap)
			}
		}
		return nil
	}

	if err := runOnce(); err != nil {
		log.Fatalf("run failed: %v", err)
	}
	if *interval <= 0 {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			if err := runOnce(); err != nil {
				log.Fatalf("run failed: %v", err)
			}
		}
	}
}
