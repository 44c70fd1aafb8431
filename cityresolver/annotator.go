package cityresolver

import "context"

// EntityType labels a named-entity span.
type EntityType string

const (
	EntityLocation     EntityType = "LOC"
	EntityPerson       EntityType = "PER"
	EntityOrganization EntityType = "ORG"
)

// Span is a named-entity mention. Start and End are byte offsets into Document.Text.
type Span struct {
	Start int        `json:"start"`
	End   int        `json:"end"`
	Type  EntityType `json:"type"`
	Text  string     `json:"text"`
}

// Token is a segmented word or punctuation mark with byte offsets into Document.Text.
type Token struct {
	Start int               `json:"start"`
	End   int               `json:"end"`
	Text  string            `json:"text"`
	Tags  map[string]string `json:"tags,omitempty"`
}

// Document is the annotation of one text.
type Document struct {
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`
	Spans  []Span  `json:"spans"`
}

// Locations returns the LOC spans in text order.
func (d *Document) Locations() []Span {
	var out []Span
	for _, s := range d.Spans {
		if s.Type == EntityLocation {
			out = append(out, s)
		}
	}
	return out
}

func (d *Document) clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Text:   d.Text,
		Tokens: make([]Token, len(d.Tokens)),
		Spans:  append([]Span(nil), d.Spans...),
	}
	for i, t := range d.Tokens {
		out.Tokens[i] = t
		if t.Tags != nil {
			tags := make(map[string]string, len(t.Tags))
			for k, v := range t.Tags {
				tags[k] = v
			}
			out.Tokens[i].Tags = tags
		}
	}
	return out
}

// Annotator is the linguistic pipeline used once the alias scan has failed.
//
// Annotate segments a text and tags its entities. NormalizeSpan returns the
// nominative surface form of a span and Lemmatize the dictionary form of a token;
// both only see the document they were annotated in.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*Document, error)
	NormalizeSpan(doc *Document, span Span) string
	Lemmatize(doc *Document, token Token) string
}
