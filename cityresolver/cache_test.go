package cityresolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCachedAnnotatorMemory(t *testing.T) {
	ctx := context.Background()
	stub := newStub()
	cache := NewMemoryCache()
	cached := NewCachedAnnotator(stub, cache, "stub", zerolog.Nop())

	first, err := cached.Annotate(ctx, "Еду в Казань")
	require.NoError(t, err)
	second, err := cached.Annotate(ctx, "Еду в Казань")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.Calls())
	assert.Equal(t, 1, cache.Len())

	_, err = cached.Annotate(ctx, "Еду в Омск")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.Calls())
}

func TestCachedAnnotatorDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	stub := newStub()
	stub.fail["сбой"] = errors.New("boom")
	cached := NewCachedAnnotator(stub, NewMemoryCache(), "stub", zerolog.Nop())

	_, err := cached.Annotate(ctx, "сбой")
	require.Error(t, err)
	_, err = cached.Annotate(ctx, "сбой")
	require.Error(t, err)
	assert.Equal(t, 2, stub.Calls())
}

func TestCachedAnnotatorKeysDependOnID(t *testing.T) {
	a := NewCachedAnnotator(newStub(), NewMemoryCache(), "morph|abc", zerolog.Nop())
	b := NewCachedAnnotator(newStub(), NewMemoryCache(), "morph|def", zerolog.Nop())
	assert.NotEqual(t, a.cacheKey("текст"), b.cacheKey("текст"))
	assert.Equal(t, a.cacheKey("текст"), a.cacheKey("текст"))
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	doc := docOf("Еду в Казань", "Казань")
	doc.Tokens[0].Tags = map[string]string{"pos": "VERB"}
	require.NoError(t, cache.Put(ctx, "k", doc))

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	got.Tokens[0].Tags["pos"] = "NOUN"
	got.Spans[0].Text = "изменено"

	again, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, "VERB", again.Tokens[0].Tags["pos"])
	assert.Equal(t, "Казань", again.Spans[0].Text)
}

func TestDiskCache(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "annotations")
	cache, err := NewDiskCache(dir)
	require.NoError(t, err)

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	doc := docOf("Живу в Самаре", "Самаре")
	require.NoError(t, cache.Put(ctx, "abc", doc))
	got, ok, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, doc, got)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))
	_, _, err = cache.Get(ctx, "bad")
	assert.Error(t, err)

	_, err = NewDiskCache("")
	assert.Error(t, err)
}

func TestDiskCacheConcurrentWritersOfOneKey(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cache, err := NewDiskCache(dir)
	require.NoError(t, err)
	doc := docOf("Еду в Казань", "Казань")

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error { return cache.Put(ctx, "same", doc) })
	}
	require.NoError(t, g.Wait())

	got, ok, err := cache.Get(ctx, "same")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, doc, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "same.json", entries[0].Name())
}

func TestRedisCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()
	ctx := context.Background()
	cache := NewRedisCache(client, "test:", time.Minute)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	doc := docOf("Еду в Тулу", "Тулу")
	require.NoError(t, cache.Put(ctx, "k", doc))
	assert.True(t, s.Exists("test:k"))
	assert.Equal(t, time.Minute, s.TTL("test:k"))

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, doc, got)
}

func TestCachedAnnotatorRedisErrorsFallThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	defer client.Close()

	stub := newStub()
	cached := NewCachedAnnotator(stub, NewRedisCache(client, "p:", 0), "stub", zerolog.Nop())
	key := "p:" + cached.cacheKey("Еду в Омск")
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))

	doc, err := cached.Annotate(context.Background(), "Еду в Омск")
	require.NoError(t, err)
	assert.Equal(t, "Еду в Омск", doc.Text)
	assert.Equal(t, 1, stub.Calls())
}
