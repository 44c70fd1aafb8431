package cityresolver

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"yashubustudio/cityresolver/morph"
)

// MorphAnnotator annotates text with the rule based analyzer from package morph.
type MorphAnnotator struct {
	analyzer *morph.Analyzer
}

// NewMorphAnnotator wraps an analyzer. Seed the analyzer lexicon with the catalog
// cities so inflected names are recognised.
func NewMorphAnnotator(analyzer *morph.Analyzer) *MorphAnnotator {
	return &MorphAnnotator{analyzer: analyzer}
}

// ID identifies the annotator in cache keys.
func (m *MorphAnnotator) ID() string { return "morph" }

// Annotate segments text and marks location spans.
func (m *MorphAnnotator) Annotate(ctx context.Context, text string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens, err := m.segment(text)
	if err != nil {
		return nil, err
	}
	doc := m.document(text, tokens)
	for _, s := range m.analyzer.Locations(tokens) {
		doc.Spans = append(doc.Spans, Span{Start: s.Start, End: s.End, Type: EntityLocation, Text: text[s.Start:s.End]})
	}
	return doc, nil
}

// NormalizeSpan returns the nominative form of the span's words.
func (m *MorphAnnotator) NormalizeSpan(doc *Document, span Span) string {
	var words []string
	for _, tok := range doc.Tokens {
		if tok.Start >= span.Start && tok.End <= span.End && wordToken(tok) {
			words = append(words, tok.Text)
		}
	}
	if len(words) == 0 {
		words = strings.Fields(span.Text)
	}
	return m.analyzer.Nominative(words)
}

// Lemmatize returns the lowercase lemma of a token.
func (m *MorphAnnotator) Lemmatize(_ *Document, token Token) string {
	return m.analyzer.Lemmatize(token.Text)
}

func (m *MorphAnnotator) segment(text string) ([]morph.Token, error) {
	if !utf8.ValidString(text) {
		return nil, errors.New("text is not valid UTF-8")
	}
	return morph.Segment(text), nil
}

func (m *MorphAnnotator) document(text string, tokens []morph.Token) *Document {
	doc := &Document{Text: text, Tokens: make([]Token, len(tokens))}
	for i, t := range tokens {
		doc.Tokens[i] = Token{Start: t.Start, End: t.End, Text: t.Text, Tags: m.analyzer.Tags(t)}
	}
	return doc
}

func wordToken(tok Token) bool {
	return tok.Tags == nil || tok.Tags["kind"] == morph.KindWord.String()
}
