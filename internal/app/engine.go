package app

import (
	"context"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"yashubustudio/cityresolver/cityresolver"
)

// engine owns the resolver runtime behind the UI and rebuilds it when the
// settings that shape resolution change.
type engine struct {
	mu         sync.RWMutex
	rt         *cityresolver.Runtime
	svc        *cityresolver.Service
	cfg        cityresolver.Config
	configPath string
	logger     zerolog.Logger
}

func openEngine(cfg cityresolver.Config, logger zerolog.Logger) (*engine, error) {
	cfg.ApplyDefaults()
	e := &engine{configPath: configPath, logger: logger}
	rt, svc, err := e.open(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	e.rt, e.svc, e.cfg = rt, svc, cfg
	return e, nil
}

func (e *engine) open(ctx context.Context, cfg cityresolver.Config) (*cityresolver.Runtime, *cityresolver.Service, error) {
	rt, err := cityresolver.Open(ctx, cfg, e.logger)
	if err != nil {
		return nil, nil, err
	}
	svc, err := cityresolver.NewService(rt.Resolver, cfg, e.logger)
	if err != nil {
		_ = rt.Close()
		return nil, nil, err
	}
	return rt, svc, nil
}

func (e *engine) service() *cityresolver.Service {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.svc
}

func (e *engine) catalog() *cityresolver.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rt.Catalog
}

func (e *engine) config() cityresolver.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.Clone()
}

// apply validates and persists cfg. Bulk settings are applied in place; catalog,
// matching, annotator and cache changes rebuild the runtime.
func (e *engine) apply(ctx context.Context, cfg cityresolver.Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	prev := e.config()
	if needsReopen(prev, cfg) {
		rt, svc, err := e.open(ctx, cfg)
		if err != nil {
			return err
		}
		e.mu.Lock()
		old := e.rt
		e.rt, e.svc, e.cfg = rt, svc, cfg
		e.mu.Unlock()
		if err := old.Close(); err != nil {
			e.logger.Warn().Err(err).Msg("close previous resolver")
		}
	} else {
		e.mu.Lock()
		e.cfg = cfg
		svc := e.svc
		e.mu.Unlock()
		svc.UpdateConfig(cfg)
	}
	if err := cityresolver.SaveConfig(e.configPath, cfg); err != nil {
		e.logger.Warn().Err(err).Msg("не удалось сохранить настройки")
	}
	return nil
}

func (e *engine) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rt == nil {
		return
	}
	if err := e.rt.Close(); err != nil {
		e.logger.Warn().Err(err).Msg("close resolver")
	}
	e.rt = nil
}

func needsReopen(a, b cityresolver.Config) bool {
	return a.CatalogPath != b.CatalogPath ||
		a.Fuzzy != b.Fuzzy ||
		a.Cache != b.Cache ||
		!reflect.DeepEqual(a.Annotator, b.Annotator)
}
