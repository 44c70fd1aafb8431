package cityresolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc receives the number of finished rows. Calls are serialized.
type ProgressFunc func(done, total int)

// Stats summarises a bulk run.
type Stats struct {
	Total    int
	Resolved int
	Failed   int
	ByStage  map[Stage]int
}

// Service runs the resolver over many texts and tables.
type Service struct {
	resolver *Resolver

	cfgMu sync.RWMutex
	cfg   Config

	logger zerolog.Logger
}

// NewService constructs a service around a resolver.
func NewService(resolver *Resolver, cfg Config, logger zerolog.Logger) (*Service, error) {
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}
	cfg.ApplyDefaults()
	return &Service{resolver: resolver, cfg: cfg, logger: logger}, nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the bulk settings (workers, error policy, columns).
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// Resolve resolves a single text.
func (s *Service) Resolve(ctx context.Context, text string) (Resolution, error) {
	return s.resolver.Resolve(ctx, text)
}

// ResolveAll resolves texts on the configured number of workers. Output order
// matches input order. Under OnErrorSkip failed rows carry Err and an empty city;
// under OnErrorAbort the first failure is returned.
func (s *Service) ResolveAll(ctx context.Context, texts []string, progress ProgressFunc) ([]ResultRow, error) {
	cfg := s.Config()
	rows := make([]ResultRow, len(texts))
	total := len(texts)

	var (
		progressMu sync.Mutex
		done       int
	)
	step := func() {
		if progress == nil {
			return
		}
		progressMu.Lock()
		done++
		progress(done, total)
		progressMu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.resolver.Resolve(gctx, text)
			rows[i] = ResultRow{Text: text, Resolution: res}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if cfg.OnError == OnErrorAbort {
					return fmt.Errorf("row %d: %w", i+1, err)
				}
				rows[i].Resolution = noMatch()
				rows[i].Err = err
				s.logger.Warn().Err(err).Int("row", i+1).Msg("resolution failed, row skipped")
			}
			step()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rows, err
	}
	stats := Summarize(rows)
	s.logger.Info().
		Int("rows", stats.Total).
		Int("resolved", stats.Resolved).
		Int("failed", stats.Failed).
		Msg("resolution finished")
	return rows, nil
}

// EnrichTable resolves the message column and writes the city column.
func (s *Service) EnrichTable(ctx context.Context, t *Table, progress ProgressFunc) (Stats, error) {
	rows, err := s.ResolveAll(ctx, t.Messages(), progress)
	if err != nil {
		return Stats{}, err
	}
	for i, row := range rows {
		t.SetCity(i, row.Resolution.City)
	}
	return Summarize(rows), nil
}

// Summarize counts rows per stage.
func Summarize(rows []ResultRow) Stats {
	st := Stats{Total: len(rows), ByStage: make(map[Stage]int)}
	for _, row := range rows {
		switch {
		case row.Err != nil:
			st.Failed++
		case row.Resolution.Found():
			st.Resolved++
			st.ByStage[row.Resolution.Stage]++
		default:
			st.ByStage[StageNone]++
		}
	}
	return st
}
