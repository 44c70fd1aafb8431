package cityresolver

// fromSpans tries each LOC span in text order. The nominative form is accepted when
// it is a canonical name verbatim, otherwise its lowercase form goes through fuzzy matching.
func (r *Resolver) fromSpans(doc *Document) (Resolution, bool) {
	for _, span := range doc.Locations() {
		name := r.annotator.NormalizeSpan(doc, span)
		if name == "" {
			continue
		}
		if r.catalog.IsCity(name) {
			return Resolution{City: name, Stage: StageSpan, Matched: span.Text, Score: 1}, true
		}
		if m, ok := r.fuzzy.Match(lower(name)); ok {
			return Resolution{City: m.City, Stage: StageSpanFuzzy, Matched: span.Text, Score: m.Score}, true
		}
	}
	return Resolution{}, false
}

// fromLemmas is the last resort: every token lemma is checked against canonical
// names, then alias keys, then fuzzy candidates.
func (r *Resolver) fromLemmas(doc *Document) (Resolution, bool) {
	for _, tok := range doc.Tokens {
		lemma := r.annotator.Lemmatize(doc, tok)
		if lemma == "" {
			continue
		}
		if r.catalog.IsCity(lemma) {
			return Resolution{City: lemma, Stage: StageLemma, Matched: tok.Text, Score: 1}, true
		}
		key := lower(lemma)
		if city, ok := r.catalog.Lookup(key); ok {
			return Resolution{City: city, Stage: StageLemmaAlias, Matched: tok.Text, Score: 1}, true
		}
		if m, ok := r.fuzzy.Match(key); ok {
			return Resolution{City: m.City, Stage: StageLemmaFuzzy, Matched: tok.Text, Score: m.Score}, true
		}
	}
	return Resolution{}, false
}
