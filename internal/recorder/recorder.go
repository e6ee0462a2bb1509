// Package recorder turns observed build tool events into compilation
// database records.
package recorder

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/StinkyLord/msbuild-compdb/internal/cmdline"
	"github.com/StinkyLord/msbuild-compdb/internal/compdb"
	"github.com/StinkyLord/msbuild-compdb/internal/model"
)

// Source is the interface every event source must implement.
type Source interface {
	Name() string
	Read(ctx context.Context, emit func(model.Event) error) error
}

// Stats counts what happened to the events of one run.
type Stats struct {
	Events         int64 `json:"events"`
	Ignored        int64 `json:"ignored"`
	Malformed      int64 `json:"malformed"`
	Compiles       int64 `json:"compiles"`
	Links          int64 `json:"links"`
	CompileRecords int64 `json:"compileRecords"`
}

// Recorder classifies events and appends the results to its Database.
// Handle is safe for concurrent use.
type Recorder struct {
	db      *compdb.Database
	parser  *cmdline.Parser
	logger  *log.Logger
	workers int

	events, ignored, malformed atomic.Int64
	compiles, links, records   atomic.Int64
}

// New creates a Recorder writing into db. workers below 1 is treated as 1.
func New(db *compdb.Database, parser *cmdline.Parser, logger *log.Logger, workers int) *Recorder {
	if workers < 1 {
		workers = 1
	}
	return &Recorder{db: db, parser: parser, logger: logger, workers: workers}
}

// Database returns the accumulator the recorder writes to.
func (r *Recorder) Database() *compdb.Database { return r.db }

// Handle records one event. Events from unrelated tasks are ignored and
// malformed command lines are logged and skipped; neither is an error.
func (r *Recorder) Handle(ev model.Event) {
	r.events.Add(1)

	inv, err := r.parser.Parse(ev)
	switch {
	case cmdline.IsUnsupportedTask(err):
		r.ignored.Add(1)
		return
	case err != nil:
		r.malformed.Add(1)
		r.logger.Warn().
			Str("task", ev.TaskName).
			Str("project", ev.ProjectFile).
			Err(err).
			Msg("skipping invocation")
		return
	}

	switch inv.Kind {
	case model.KindCompile:
		r.compiles.Add(1)
		n := r.db.AddCompile(inv.Command, inv.Directory, inv.Files)
		r.records.Add(int64(n))
	case model.KindLink:
		r.links.Add(1)
		r.db.AddLink(inv.Command, inv.Directory, inv.Files)
	}

	r.logger.Debug().
		Str("tool", inv.Tool.String()).
		Str("kind", inv.Kind.String()).
		Strs("files", inv.Files).
		Msg("recorded invocation")
}

// Run reads every source in order and hands the events to the recorder's
// workers. With a single worker records keep the sources' event order.
func (r *Recorder) Run(ctx context.Context, sources ...Source) error {
	g, ctx := errgroup.WithContext(ctx)
	events := make(chan model.Event, r.workers*4)

	g.Go(func() error {
		defer close(events)
		for _, src := range sources {
			r.logger.Debug().Str("source", src.Name()).Msg("reading events")
			err := src.Read(ctx, func(ev model.Event) error {
				select {
				case events <- ev:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
		}
		return nil
	})

	for i := 0; i < r.workers; i++ {
		g.Go(func() error {
			for ev := range events {
				r.Handle(ev)
			}
			return nil
		})
	}

	return g.Wait()
}

// Stats returns the current counters.
func (r *Recorder) Stats() Stats {
	return Stats{
		Events:         r.events.Load(),
		Ignored:        r.ignored.Load(),
		Malformed:      r.malformed.Load(),
		Compiles:       r.compiles.Load(),
		Links:          r.links.Load(),
		CompileRecords: r.records.Load(),
	}
}
