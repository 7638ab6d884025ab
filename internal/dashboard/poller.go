package dashboard

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/adapter/dto/result"
	"github.com/johnquangdev/oncovoice/internal/adapter/dto/team"
	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

const (
	DefaultInterval     = 30 * time.Second
	DefaultFastInterval = 3 * time.Second

	clearScreen = "\033[H\033[2J"
)

// Source is what the poller reads from
type Source interface {
	Results(ctx context.Context) (*result.ResultsResponse, error)
	Catalog(ctx context.Context) (*team.CatalogResponse, error)
}

// PollerConfig configures a Poller
type PollerConfig struct {
	Interval     time.Duration
	FastInterval time.Duration
	// Watch lists team IDs that trigger fast polling; empty means every team shown
	Watch []int
	// ClearScreen redraws in place instead of appending frames
	ClearScreen bool
	Render      RenderOptions
}

// Poller refreshes the dashboard on a timer
type Poller struct {
	source Source
	out    io.Writer
	cfg    PollerConfig
	watch  map[int]bool
	logger *zap.Logger
}

// NewPoller creates a poller writing frames to out
func NewPoller(source Source, out io.Writer, cfg PollerConfig, logger *zap.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.FastInterval <= 0 {
		cfg.FastInterval = DefaultFastInterval
	}
	if cfg.FastInterval > cfg.Interval {
		cfg.FastInterval = cfg.Interval
	}

	watch := make(map[int]bool, len(cfg.Watch))
	for _, id := range cfg.Watch {
		watch[id] = true
	}

	return &Poller{
		source: source,
		out:    out,
		cfg:    cfg,
		watch:  watch,
		logger: logger,
	}
}

// NextInterval returns the fast interval while a watched team's record is in flight
func (p *Poller) NextInterval(catalog *team.CatalogResponse, results *result.ResultsResponse) time.Duration {
	if catalog == nil || results == nil {
		return p.cfg.Interval
	}

	for _, t := range catalog.Teams {
		if !p.watched(t) {
			continue
		}
		rec := results.Results[entities.ResultKey(t.ID)]
		if rec != nil && entities.ResultStatus(rec.Status).IsInFlight() {
			return p.cfg.FastInterval
		}
	}
	return p.cfg.Interval
}

func (p *Poller) watched(t *team.TeamResponse) bool {
	if len(p.watch) > 0 {
		return p.watch[t.ID]
	}
	return p.cfg.Render.SessionID == 0 || t.SessionID == p.cfg.Render.SessionID
}

// Refresh fetches and renders one frame and returns the delay before the next one
func (p *Poller) Refresh(ctx context.Context) (time.Duration, error) {
	catalog, err := p.source.Catalog(ctx)
	if err != nil {
		return p.cfg.Interval, fmt.Errorf("failed to load teams: %w", err)
	}
	results, err := p.source.Results(ctx)
	if err != nil {
		return p.cfg.Interval, fmt.Errorf("failed to load results: %w", err)
	}

	if p.cfg.ClearScreen {
		if _, err := io.WriteString(p.out, clearScreen); err != nil {
			return p.cfg.Interval, err
		}
	}
	if err := Render(p.out, catalog, results, p.cfg.Render); err != nil {
		return p.cfg.Interval, err
	}

	next := p.NextInterval(catalog, results)
	fmt.Fprintf(p.out, "last refresh %s, next in %s\n", time.Now().Format("15:04:05"), next)
	return next, nil
}

// Run refreshes until ctx is cancelled. Fetch failures are reported and retried on the slow interval.
func (p *Poller) Run(ctx context.Context) error {
	for {
		next, err := p.Refresh(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if p.logger != nil {
				p.logger.Warn("⚠️ Dashboard refresh failed", zap.Error(err))
			}
			fmt.Fprintf(p.out, "refresh failed: %v\n", err)
		}

		timer := time.NewTimer(next)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
