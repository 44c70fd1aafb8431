package cityresolver

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Stage records which step of the pipeline produced a resolution.
type Stage string

const (
	StageNone       Stage = "none"
	StageAlias      Stage = "alias"
	StageSpan       Stage = "span"
	StageSpanFuzzy  Stage = "span_fuzzy"
	StageLemma      Stage = "lemma"
	StageLemmaAlias Stage = "lemma_alias"
	StageLemmaFuzzy Stage = "lemma_fuzzy"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageAlias, StageSpan, StageSpanFuzzy, StageLemma, StageLemmaAlias, StageLemmaFuzzy, StageNone}

// Resolution is the outcome of resolving one text.
type Resolution struct {
	City    string  `json:"city,omitempty"`
	Stage   Stage   `json:"stage"`
	Matched string  `json:"matched,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// Found reports whether a city was resolved.
func (r Resolution) Found() bool { return r.City != "" }

func noMatch() Resolution { return Resolution{Stage: StageNone} }

type resolverOptions struct {
	cutoff float64
	logger zerolog.Logger
}

// Option configures a Resolver.
type Option func(*resolverOptions)

// WithFuzzyCutoff sets the similarity threshold for fuzzy matching.
func WithFuzzyCutoff(cutoff float64) Option {
	return func(o *resolverOptions) { o.cutoff = cutoff }
}

// WithLogger attaches a logger; resolutions are logged at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *resolverOptions) { o.logger = logger }
}

// Resolver runs the staged city resolution. It holds no mutable state and is safe
// for concurrent use as long as its annotator is.
type Resolver struct {
	catalog   *Catalog
	aliases   *AliasMatcher
	fuzzy     *FuzzyMatcher
	annotator Annotator
	logger    zerolog.Logger
}

// NewResolver wires a catalog and an annotator into a resolver.
func NewResolver(catalog *Catalog, annotator Annotator, opts ...Option) (*Resolver, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if annotator == nil {
		return nil, errors.New("annotator is required")
	}
	o := resolverOptions{cutoff: DefaultFuzzyCutoff, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Resolver{
		catalog:   catalog,
		aliases:   NewAliasMatcher(catalog),
		fuzzy:     NewFuzzyMatcher(catalog, o.cutoff),
		annotator: annotator,
		logger:    o.logger,
	}, nil
}

// Catalog returns the catalog the resolver was built with.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

// Resolve extracts at most one canonical city from text.
//
// The alias scan runs on the normalized text and short-circuits everything else.
// Otherwise the original text is annotated once, LOC spans are tried in order and
// then every token lemma. A text with no city yields StageNone and a nil error;
// annotator failures are returned as *AnnotationError.
func (r *Resolver) Resolve(ctx context.Context, text string) (Resolution, error) {
	normalized := NormalizeMessage(text)
	if a, ok := r.aliases.Match(normalized); ok {
		res := Resolution{City: a.City, Stage: StageAlias, Matched: a.Key, Score: 1}
		r.trace(text, res)
		return res, nil
	}

	doc, err := r.annotator.Annotate(ctx, text)
	if err != nil {
		return noMatch(), &AnnotationError{Text: text, Err: err}
	}
	if doc == nil {
		return noMatch(), &AnnotationError{Text: text, Err: errors.New("annotator returned no document")}
	}

	if res, ok := r.fromSpans(doc); ok {
		r.trace(text, res)
		return res, nil
	}
	if res, ok := r.fromLemmas(doc); ok {
		r.trace(text, res)
		return res, nil
	}
	res := noMatch()
	r.trace(text, res)
	return res, nil
}

func (r *Resolver) trace(text string, res Resolution) {
	r.logger.Debug().
		Str("text", truncateRunes(text, 80)).
		Str("city", res.City).
		Str("stage", string(res.Stage)).
		Str("matched", res.Matched).
		Float64("score", res.Score).
		Msg("resolved")
}
