package cityresolver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/cityresolver/morph"
)

// stubAnnotator returns prepared documents and counts Annotate calls.
type stubAnnotator struct {
	mu     sync.Mutex
	calls  int
	docs   map[string]*Document
	spans  map[string]string
	lemmas map[string]string
	fail   map[string]error
}

func newStub() *stubAnnotator {
	return &stubAnnotator{
		docs:   map[string]*Document{},
		spans:  map[string]string{},
		lemmas: map[string]string{},
		fail:   map[string]error{},
	}
}

func (s *stubAnnotator) Annotate(_ context.Context, text string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.fail[text]; ok {
		return nil, err
	}
	if doc, ok := s.docs[text]; ok {
		return doc, nil
	}
	return docOf(text), nil
}

func (s *stubAnnotator) NormalizeSpan(_ *Document, span Span) string {
	if v, ok := s.spans[span.Text]; ok {
		return v
	}
	return span.Text
}

func (s *stubAnnotator) Lemmatize(_ *Document, tok Token) string {
	if v, ok := s.lemmas[tok.Text]; ok {
		return v
	}
	return lower(tok.Text)
}

func (s *stubAnnotator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// docOf splits text on spaces and marks the given substrings as LOC spans.
func docOf(text string, locations ...string) *Document {
	doc := &Document{Text: text}
	offset := 0
	for _, field := range strings.Fields(text) {
		start := offset + strings.Index(text[offset:], field)
		end := start + len(field)
		doc.Tokens = append(doc.Tokens, Token{Start: start, End: end, Text: field})
		offset = end
	}
	for _, loc := range locations {
		start := strings.Index(text, loc)
		if start < 0 {
			continue
		}
		doc.Spans = append(doc.Spans, Span{Start: start, End: start + len(loc), Type: EntityLocation, Text: loc})
	}
	return doc
}

func newTestResolver(t *testing.T, c *Catalog, a Annotator, opts ...Option) *Resolver {
	t.Helper()
	r, err := NewResolver(c, a, opts...)
	require.NoError(t, err)
	return r
}

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)
	return c
}

func TestResolveAliasScenarios(t *testing.T) {
	stub := newStub()
	r := newTestResolver(t, defaultCatalog(t), stub)

	tests := []struct {
		text string
		city string
	}{
		{"Живу в Мск", "Москва"},
		{"Еду в питер на выходные", "Санкт-Петербург"},
		{"Билеты в С.-Петербург", "Санкт-Петербург"},
		{"Офис в Ростове-на-Дону", "Ростов-на-Дону"},
	}
	for _, tt := range tests {
		res, err := r.Resolve(context.Background(), tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.city, res.City, tt.text)
		assert.Equal(t, StageAlias, res.Stage, tt.text)
	}
	assert.Zero(t, stub.Calls(), "alias hits must not reach the annotator")
}

func TestResolveNoCity(t *testing.T) {
	stub := newStub()
	r := newTestResolver(t, defaultCatalog(t), stub)

	res, err := r.Resolve(context.Background(), "Сегодня хорошая погода")
	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.Equal(t, StageNone, res.Stage)
	assert.Equal(t, 1, stub.Calls())
}

func TestResolveEmptyText(t *testing.T) {
	r := newTestResolver(t, defaultCatalog(t), newStub())
	res, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Resolution{Stage: StageNone}, res)
}

func TestResolveSpanStages(t *testing.T) {
	c := mustCatalog(t, []string{"Казань", "Новосибирск"})
	stub := newStub()
	stub.docs["Прилетел в Казани"] = docOf("Прилетел в Казани", "Казани")
	stub.spans["Казани"] = "Казань"
	stub.docs["Прилетел в Новосибирскк"] = docOf("Прилетел в Новосибирскк", "Новосибирскк")
	r := newTestResolver(t, c, stub)

	res, err := r.Resolve(context.Background(), "Прилетел в Казани")
	require.NoError(t, err)
	assert.Equal(t, Resolution{City: "Казань", Stage: StageSpan, Matched: "Казани", Score: 1}, res)

	res, err = r.Resolve(context.Background(), "Прилетел в Новосибирскк")
	require.NoError(t, err)
	assert.Equal(t, "Новосибирск", res.City)
	assert.Equal(t, StageSpanFuzzy, res.Stage)
	assert.Greater(t, res.Score, 0.8)
}

func TestResolveSpansInTextOrder(t *testing.T) {
	c := mustCatalog(t, []string{"Казань", "Омск"})
	stub := newStub()
	text := "Из Гдетотам через Омск в Казань"
	stub.docs[text] = docOf(text, "Гдетотам", "Омск", "Казань")
	r := newTestResolver(t, c, stub)

	res, err := r.Resolve(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "Омск", res.City)
	assert.Equal(t, StageSpan, res.Stage)
}

func TestResolveLemmaStages(t *testing.T) {
	c := mustCatalog(t, []string{"Москва", "Санкт-Петербург"}, Alias{"питер", "Санкт-Петербург"})
	stub := newStub()
	stub.lemmas["москвою"] = "Москва"
	stub.lemmas["Питеру"] = "Питер"
	r := newTestResolver(t, c, stub)

	res, err := r.Resolve(context.Background(), "любуюсь москвою")
	require.NoError(t, err)
	assert.Equal(t, "Москва", res.City)
	assert.Equal(t, StageLemma, res.Stage)

	res, err = r.Resolve(context.Background(), "скучаю по Питеру")
	require.NoError(t, err)
	assert.Equal(t, "Санкт-Петербург", res.City)
	assert.Equal(t, StageLemmaAlias, res.Stage)
	assert.Equal(t, "Питеру", res.Matched)
}

func TestResolveFuzzyAliasReturnsCanonicalCity(t *testing.T) {
	c := mustCatalog(t, []string{"Санкт-Петербург"}, Alias{"питер", "Санкт-Петербург"})
	r := newTestResolver(t, c, newStub())

	res, err := r.Resolve(context.Background(), "Приезжайте в питерр")
	require.NoError(t, err)
	assert.Equal(t, "Санкт-Петербург", res.City)
	assert.Equal(t, StageLemmaFuzzy, res.Stage)
	assert.InDelta(t, 0.909, res.Score, 0.001)
}

func TestResolveCustomCutoff(t *testing.T) {
	c := mustCatalog(t, []string{"Санкт-Петербург"}, Alias{"питер", "Санкт-Петербург"})
	r := newTestResolver(t, c, newStub(), WithFuzzyCutoff(0.95))

	res, err := r.Resolve(context.Background(), "Приезжайте в питерр")
	require.NoError(t, err)
	assert.False(t, res.Found())
}

func TestResolveAnnotationFailure(t *testing.T) {
	stub := newStub()
	cause := errors.New("model crashed")
	stub.fail["Где-то далеко"] = cause
	r := newTestResolver(t, defaultCatalog(t), stub)

	res, err := r.Resolve(context.Background(), "Где-то далеко")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAnnotationFailed))
	assert.True(t, errors.Is(err, cause))
	var annErr *AnnotationError
	require.True(t, errors.As(err, &annErr))
	assert.Equal(t, "Где-то далеко", annErr.Text)
	assert.False(t, res.Found())
	assert.Equal(t, 1, stub.Calls(), "failures are not retried")
}

func TestResolveIsIdempotent(t *testing.T) {
	c := defaultCatalog(t)
	r := newTestResolver(t, c, NewMorphAnnotator(morph.New(morph.WithLexicon(c.Cities()))))

	for _, text := range []string{"Живу в Мск", "Вчера вернулся из Казани", "Сегодня хорошая погода"} {
		first, err := r.Resolve(context.Background(), text)
		require.NoError(t, err)
		second, err := r.Resolve(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, first, second, text)
	}
}

func TestNewResolverRequiresDependencies(t *testing.T) {
	_, err := NewResolver(nil, newStub())
	assert.Error(t, err)
	_, err = NewResolver(defaultCatalog(t), nil)
	assert.Error(t, err)
}

func TestResolveWithMorphAnnotator(t *testing.T) {
	c := mustCatalog(t, []string{"Москва", "Казань", "Новосибирск"}, Alias{"мск", "Москва"})
	annotator := NewMorphAnnotator(morph.New(morph.WithLexicon(c.Cities())))
	r := newTestResolver(t, c, annotator)

	tests := []struct {
		name  string
		text  string
		city  string
		stage Stage
	}{
		{"alias", "Живу в Мск", "Москва", StageAlias},
		{"inflected span", "Вчера вернулся из Казани", "Казань", StageSpan},
		{"misspelled lemma", "собираюсь в новосибирк", "Новосибирск", StageLemmaFuzzy},
		{"nothing", "Сегодня хорошая погода", "", StageNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.city, res.City)
			assert.Equal(t, tt.stage, res.Stage)
		})
	}
}

func TestMorphAnnotatorRejectsInvalidUTF8(t *testing.T) {
	c := mustCatalog(t, []string{"Москва"})
	r := newTestResolver(t, c, NewMorphAnnotator(morph.New()))

	_, err := r.Resolve(context.Background(), "Еду в \xff\xfe")
	assert.ErrorIs(t, err, ErrAnnotationFailed)
}

func TestMorphAnnotatorHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMorphAnnotator(morph.New()).Annotate(ctx, "текст")
	assert.ErrorIs(t, err, context.Canceled)
}
