package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordlevel"
	"github.com/sugarme/tokenizer/pretokenizer"
)

func TestDecodeBIO(t *testing.T) {
	text := "Еду в Нижний Новгород к Ивану"
	// byte offsets of the words above
	tokens := []TokenLabel{
		{Label: "O", Special: true},
		{Label: "O", Start: 0, End: 6},
		{Label: "O", Start: 7, End: 9},
		{Label: "B-LOC", Start: 10, End: 22},
		{Label: "I-LOC", Start: 23, End: 39},
		{Label: "O", Start: 40, End: 42},
		{Label: "B-PER", Start: 43, End: 53},
		{Label: "O", Special: true},
	}
	got := DecodeBIO(text, tokens)
	assert.Equal(t, []Entity{
		{Type: "LOC", Start: 10, End: 39, Text: "Нижний Новгород"},
		{Type: "PER", Start: 43, End: 53, Text: "Ивану"},
	}, got)
}

func TestDecodeBIOSubwordsAndStrayInside(t *testing.T) {
	text := "Казани и Самаре"
	tokens := []TokenLabel{
		{Label: "B-LOC", Start: 0, End: 6},
		{Label: "B-LOC", Start: 6, End: 12},
		{Label: "O", Start: 13, End: 15},
		{Label: "I-LOC", Start: 16, End: 28},
	}
	got := DecodeBIO(text, tokens)
	assert.Equal(t, []Entity{
		{Type: "LOC", Start: 0, End: 12, Text: "Казани"},
		{Type: "LOC", Start: 16, End: 28, Text: "Самаре"},
	}, got)
}

func TestDecodeBIOSkipsInvalidOffsets(t *testing.T) {
	got := DecodeBIO("abc", []TokenLabel{{Label: "B-LOC", Start: 2, End: 10}})
	assert.Empty(t, got)
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 2, argmax([]float32{0.1, -1, 3, 2.9}))
	assert.Equal(t, 0, argmax([]float32{1, 1}))
}

func newWordTokenizer(t *testing.T, words ...string) *tokenizer.Tokenizer {
	t.Helper()
	vocab := map[string]int{"[UNK]": 0}
	for i, w := range words {
		vocab[w] = i + 1
	}
	model, err := wordlevel.New(vocab, "[UNK]")
	require.NoError(t, err)
	tk := tokenizer.NewTokenizer(model)
	tk.WithPreTokenizer(pretokenizer.NewWhitespaceSplit())
	return tk
}

func TestAlignLabelsUsesByteOffsets(t *testing.T) {
	tk := newWordTokenizer(t, "Еду", "в", "Казань", "Нижний", "Новгород")
	text := "Еду в Нижний Новгород и Казань"
	enc, err := tk.EncodeSingle(text, true)
	require.NoError(t, err)
	require.Len(t, enc.Ids, 6)

	labels := alignLabels(enc, []string{"O", "O", "B-LOC", "I-LOC", "O", "B-LOC"})
	assert.Equal(t, TokenLabel{Label: "O", Start: 0, End: 6}, labels[0])

	got := DecodeBIO(text, labels)
	assert.Equal(t, []Entity{
		{Type: "LOC", Start: 10, End: 39, Text: "Нижний Новгород"},
		{Type: "LOC", Start: 43, End: 55, Text: "Казань"},
	}, got)
}
