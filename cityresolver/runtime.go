package cityresolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"yashubustudio/cityresolver/morph"
)

// Runtime is a resolver assembled from configuration together with the
// resources that must be released afterwards.
type Runtime struct {
	Catalog  *Catalog
	Resolver *Resolver

	closers []func() error
}

// LoadCatalog reads the catalog file or falls back to the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	return LoadCatalogFile(path)
}

// Open builds the catalog, annotator, cache and resolver described by cfg.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Runtime, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	catalog, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Catalog: catalog}

	analyzer := morph.New(morph.WithLexicon(catalog.Cities()))
	var (
		annotator Annotator
		id        string
	)
	switch cfg.Annotator.Backend {
	case BackendONNX:
		ort, err := NewOrtAnnotator(cfg.Annotator, analyzer)
		if err != nil {
			return nil, fmt.Errorf("init onnx annotator: %w", err)
		}
		rt.closers = append(rt.closers, ort.Close)
		annotator, id = ort, ort.ID()
	default:
		m := NewMorphAnnotator(analyzer)
		annotator, id = m, m.ID()
	}

	cache, err := openCache(ctx, cfg.Cache, rt)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if cache != nil {
		// morph output depends on the lexicon, which comes from the catalog
		annotator = NewCachedAnnotator(annotator, cache, id+"|"+catalog.Fingerprint(), logger)
	}

	resolver, err := NewResolver(catalog, annotator, WithFuzzyCutoff(cfg.Fuzzy.Cutoff), WithLogger(logger))
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Resolver = resolver
	logger.Info().
		Int("cities", len(catalog.cities)).
		Int("aliases", len(catalog.aliases)).
		Str("annotator", id).
		Str("cache", string(cfg.Cache.Backend)).
		Msg("resolver ready")
	return rt, nil
}

func openCache(ctx context.Context, cfg CacheConfig, rt *Runtime) (AnnotationCache, error) {
	switch cfg.Backend {
	case CacheNone:
		return nil, nil
	case CacheDisk:
		return NewDiskCache(cfg.Dir)
	case CacheRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		rt.closers = append(rt.closers, client.Close)
		return NewRedisCache(client, cfg.Prefix, time.Duration(cfg.TTLSeconds)*time.Second), nil
	default:
		return NewMemoryCache(), nil
	}
}

// Close releases the annotator and cache connections.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

var _ io.Closer = (*Runtime)(nil)
