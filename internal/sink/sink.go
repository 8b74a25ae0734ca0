package sink

import (
	"context"

	"quake-stats/internal/model"
)

// Sink receives the finished output document exactly once per run.
type Sink interface {
	Name() string
	Write(ctx context.Context, doc *model.OutputDocument) error
}
