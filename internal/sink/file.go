package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"quake-stats/internal/config"
	"quake-stats/internal/model"
)

type fileSink struct {
	path string
}

func NewFile(cfg config.OutputConfig) Sink {
	return &fileSink{path: cfg.Path}
}

func (f *fileSink) Name() string { return "file" }

// Write marshals the document pretty-printed and replaces the destination
// via temp file + rename, so a reader never observes a partial document and
// a failed run leaves the previous document untouched.
func (f *fileSink) Write(_ context.Context, doc *model.OutputDocument) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".stats-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
