package ner

import "strings"

// Entity is a tagged mention. Start and End are byte offsets into the tagged text.
type Entity struct {
	Type  string
	Start int
	End   int
	Text  string
}

// TokenLabel is the predicted label of one model token.
type TokenLabel struct {
	Label   string
	Start   int
	End     int
	Special bool
}

// DecodeBIO groups BIO-labelled tokens into entities. An I- label without a
// matching open entity starts a new one; a B- label directly glued to an open
// entity of the same type continues it, which covers sub-word pieces.
func DecodeBIO(text string, tokens []TokenLabel) []Entity {
	var (
		out []Entity
		cur *Entity
	)
	flush := func() {
		if cur != nil {
			cur.Text = text[cur.Start:cur.End]
			out = append(out, *cur)
			cur = nil
		}
	}
	for _, tok := range tokens {
		if tok.Special || tok.End <= tok.Start || tok.Start < 0 || tok.End > len(text) {
			continue
		}
		prefix, typ := splitLabel(tok.Label)
		switch {
		case prefix == "O":
			flush()
		case cur != nil && cur.Type == typ && (prefix == "I" || tok.Start == cur.End):
			cur.End = tok.End
		default:
			flush()
			cur = &Entity{Type: typ, Start: tok.Start, End: tok.End}
		}
	}
	flush()
	return out
}

func splitLabel(label string) (prefix, typ string) {
	if label == "" || label == "O" {
		return "O", ""
	}
	if i := strings.IndexAny(label, "-_"); i == 1 {
		return label[:1], label[2:]
	}
	return "I", label
}

func argmax(row []float32) int {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return best
}
