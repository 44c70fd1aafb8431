package cityresolver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"yashubustudio/cityresolver/morph"
	"yashubustudio/cityresolver/ner"
)

// OrtAnnotator tags entities with an ONNX token-classification model and uses
// the morph analyzer for segmentation, span normalization and lemmas.
type OrtAnnotator struct {
	*MorphAnnotator

	mu      sync.RWMutex
	tagger  *ner.Tagger
	cfg     AnnotatorConfig
	modelID string
}

// NewOrtAnnotator initializes the tagger.
func NewOrtAnnotator(cfg AnnotatorConfig, analyzer *morph.Analyzer) (*OrtAnnotator, error) {
	tagger := &ner.Tagger{}
	if err := tagger.Init(ner.Config{
		OrtDLL:        cfg.OrtDLL,
		ModelPath:     cfg.ModelPath,
		TokenizerPath: cfg.TokenizerPath,
		MaxSeqLen:     cfg.MaxSeqLen,
		Labels:        cfg.Labels,
		TokenTypeIDs:  cfg.TokenTypeIDs,
	}); err != nil {
		return nil, err
	}
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = filepath.Base(cfg.ModelPath)
	}
	return &OrtAnnotator{
		MorphAnnotator: NewMorphAnnotator(analyzer),
		tagger:         tagger,
		cfg:            cfg,
		modelID:        modelID,
	}, nil
}

// ID identifies the model in cache keys.
func (o *OrtAnnotator) ID() string { return "onnx:" + o.modelID }

// Close releases ORT resources.
func (o *OrtAnnotator) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tagger != nil {
		o.tagger.Close()
		o.tagger = nil
	}
	return nil
}

// Annotate segments text with morph and takes entity spans from the model.
func (o *OrtAnnotator) Annotate(ctx context.Context, text string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.tagger == nil {
		return nil, errors.New("onnx annotator is closed")
	}
	tokens, err := o.segment(text)
	if err != nil {
		return nil, err
	}
	entities, err := o.tagger.Tag(text)
	if err != nil {
		return nil, fmt.Errorf("tag entities: %w", err)
	}
	doc := o.document(text, tokens)
	for _, e := range entities {
		doc.Spans = append(doc.Spans, Span{Start: e.Start, End: e.End, Type: entityType(e.Type), Text: e.Text})
	}
	return doc, nil
}

func entityType(label string) EntityType {
	switch label {
	case "LOC", "GPE", "GEOLOC":
		return EntityLocation
	case "PER", "PERSON":
		return EntityPerson
	case "ORG":
		return EntityOrganization
	default:
		return EntityType(label)
	}
}
