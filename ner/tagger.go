// Package ner runs a token-classification model exported to ONNX and returns
// named-entity spans.
package ner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// DefaultLabels is the label order of common Russian BERT NER checkpoints.
var DefaultLabels = []string{"O", "B-PER", "I-PER", "B-ORG", "I-ORG", "B-LOC", "I-LOC"}

// Config points at the runtime library, model and tokenizer files.
type Config struct {
	OrtDLL        string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
	Labels        []string
	// TokenTypeIDs feeds a token_type_ids input for models that declare one.
	TokenTypeIDs bool
}

var (
	envMu   sync.Mutex
	envRefs int
)

// Tagger wraps an ONNX session and its tokenizer. Tag is safe for concurrent use.
type Tagger struct {
	mu      sync.Mutex
	cfg     Config
	tk      *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
}

// Init loads the runtime, tokenizer and model.
func (t *Tagger) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("ner: model path is required")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("ner: tokenizer path is required")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 512
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = DefaultLabels
	}

	if err := acquireEnv(cfg.OrtDLL); err != nil {
		return err
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		releaseEnv()
		return fmt.Errorf("ner: load tokenizer: %w", err)
	}
	inputs := []string{"input_ids", "attention_mask"}
	if cfg.TokenTypeIDs {
		inputs = append(inputs, "token_type_ids")
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputs, []string{"logits"}, nil)
	if err != nil {
		releaseEnv()
		return fmt.Errorf("ner: create session: %w", err)
	}
	t.cfg = cfg
	t.tk = tk
	t.session = session
	return nil
}

// Close releases the session and, with the last tagger, the runtime.
func (t *Tagger) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return
	}
	_ = t.session.Destroy()
	t.session = nil
	releaseEnv()
}

// Tag returns the entities found in text.
func (t *Tagger) Tag(text string) ([]Entity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil, errors.New("ner: tagger is not initialized")
	}
	if text == "" {
		return nil, nil
	}
	enc, err := t.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("ner: tokenize: %w", err)
	}
	n := len(enc.Ids)
	if n > t.cfg.MaxSeqLen {
		n = t.cfg.MaxSeqLen
	}
	if n == 0 {
		return nil, nil
	}

	ids := make([]int64, n)
	mask := make([]int64, n)
	types := make([]int64, n)
	for i := 0; i < n; i++ {
		ids[i] = int64(enc.Ids[i])
		mask[i] = 1
		if i < len(enc.TypeIds) {
			types[i] = int64(enc.TypeIds[i])
		}
	}
	shape := ort.NewShape(1, int64(n))
	idsTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("ner: input tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("ner: mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	inputs := []ort.Value{idsTensor, maskTensor}
	if t.cfg.TokenTypeIDs {
		typesTensor, err := ort.NewTensor(shape, types)
		if err != nil {
			return nil, fmt.Errorf("ner: type tensor: %w", err)
		}
		defer typesTensor.Destroy()
		inputs = append(inputs, typesTensor)
	}
	numLabels := len(t.cfg.Labels)
	logits, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(n), int64(numLabels)))
	if err != nil {
		return nil, fmt.Errorf("ner: output tensor: %w", err)
	}
	defer logits.Destroy()
	if err := t.session.Run(inputs, []ort.Value{logits}); err != nil {
		return nil, fmt.Errorf("ner: run: %w", err)
	}

	data := logits.GetData()
	predicted := make([]string, n)
	for i := range predicted {
		predicted[i] = t.cfg.Labels[argmax(data[i*numLabels:(i+1)*numLabels])]
	}
	labels := alignLabels(enc, predicted)
	return DecodeBIO(text, labels), nil
}

// alignLabels attaches the encoding's byte offsets to the predicted labels.
func alignLabels(enc *tokenizer.Encoding, predicted []string) []TokenLabel {
	labels := make([]TokenLabel, len(predicted))
	for i, label := range predicted {
		labels[i] = TokenLabel{Label: label}
		if i < len(enc.SpecialTokenMask) && enc.SpecialTokenMask[i] == 1 {
			labels[i].Special = true
			continue
		}
		if i < len(enc.Offsets) && len(enc.Offsets[i]) == 2 {
			labels[i].Start, labels[i].End = enc.Offsets[i][0], enc.Offsets[i][1]
		}
	}
	return labels
}

func acquireEnv(dll string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 && !ort.IsInitialized() {
		if dll != "" {
			ort.SetSharedLibraryPath(dll)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("ner: initialize onnxruntime: %w", err)
		}
	}
	envRefs++
	return nil
}

func releaseEnv() {
	envMu.Lock()
	defer envMu.Unlock()
	envRefs--
	if envRefs == 0 && ort.IsInitialized() {
		_ = ort.DestroyEnvironment()
	}
}
