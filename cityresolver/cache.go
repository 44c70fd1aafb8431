package cityresolver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AnnotationCache stores documents by key. Get reports a miss with ok == false and a nil error.
type AnnotationCache interface {
	Get(ctx context.Context, key string) (*Document, bool, error)
	Put(ctx context.Context, key string, doc *Document) error
}

// MemoryCache keeps documents in process memory.
type MemoryCache struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{docs: make(map[string]*Document)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Document, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[key]
	if !ok {
		return nil, false, nil
	}
	return doc.clone(), true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, doc *Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[key] = doc.clone()
	return nil
}

// Len returns the number of cached documents.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// DiskCache stores one JSON file per document.
type DiskCache struct {
	dir string
}

// NewDiskCache prepares the cache directory.
func NewDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("cache dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Get(_ context.Context, key string) (*Document, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode cache file %s: %w", c.path(key), err)
	}
	return &doc, true, nil
}

func (c *DiskCache) Put(_ context.Context, key string, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(c.dir, key+"-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, werr := f.Write(data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return werr
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// RedisCache shares documents between processes through Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps a client. A zero ttl keeps entries until evicted.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Document, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode cached document: %w", err)
	}
	return &doc, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

// CachedAnnotator memoises Annotate results. Cache failures are logged and never
// fail an annotation.
type CachedAnnotator struct {
	Annotator
	cache  AnnotationCache
	id     string
	logger zerolog.Logger
}

// NewCachedAnnotator wraps inner. id must change whenever the annotator's output
// would, so stale entries are never reused.
func NewCachedAnnotator(inner Annotator, cache AnnotationCache, id string, logger zerolog.Logger) *CachedAnnotator {
	return &CachedAnnotator{Annotator: inner, cache: cache, id: id, logger: logger}
}

// Annotate returns the cached document or annotates and stores it.
func (c *CachedAnnotator) Annotate(ctx context.Context, text string) (*Document, error) {
	key := c.cacheKey(text)
	doc, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("annotation cache read failed")
	}
	if ok && doc != nil {
		return doc, nil
	}
	doc, err = c.Annotator.Annotate(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, key, doc); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("annotation cache write failed")
	}
	return doc, nil
}

// Close closes the wrapped annotator when it holds resources.
func (c *CachedAnnotator) Close() error {
	if closer, ok := c.Annotator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *CachedAnnotator) cacheKey(text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, c.id)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}
