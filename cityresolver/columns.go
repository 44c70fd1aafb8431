package cityresolver

import "sync"

// ColumnCandidates defines possible header names for auto-detecting table columns.
type ColumnCandidates struct {
	Message []string `json:"message"`
	City    []string `json:"city"`
}

var (
	columnCandidatesMu  sync.RWMutex
	activeColumnOptions = defaultColumnCandidates()
)

func defaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Message: []string{"message", "text", "сообщение", "текст", "body"},
		City:    []string{"city", "город"},
	}
}

// DefaultColumnCandidates returns the built-in column detection candidates.
func DefaultColumnCandidates() ColumnCandidates {
	return defaultColumnCandidates().clone()
}

// SetColumnCandidates updates the column detection candidates used during auto-detection.
// Fields left nil fall back to the built-in defaults.
func SetColumnCandidates(candidates ColumnCandidates) {
	columnCandidatesMu.Lock()
	defer columnCandidatesMu.Unlock()
	activeColumnOptions = candidates.withDefaults()
}

func getColumnCandidates() ColumnCandidates {
	columnCandidatesMu.RLock()
	defer columnCandidatesMu.RUnlock()
	return activeColumnOptions.clone()
}

func (c ColumnCandidates) withDefaults() ColumnCandidates {
	defaults := defaultColumnCandidates()
	return ColumnCandidates{
		Message: pickStrings(c.Message, defaults.Message),
		City:    pickStrings(c.City, defaults.City),
	}
}

func (c ColumnCandidates) clone() ColumnCandidates {
	return ColumnCandidates{
		Message: cloneStrings(c.Message),
		City:    cloneStrings(c.City),
	}
}

func pickStrings(custom, fallback []string) []string {
	if custom == nil {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
