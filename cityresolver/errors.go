package cityresolver

import (
	"errors"
	"fmt"
)

var (
	// ErrAnnotationFailed marks failures of the linguistic annotation pipeline for a single text.
	ErrAnnotationFailed = errors.New("annotation failed")
	// ErrMalformedCatalog marks catalog data that cannot be used for resolution.
	ErrMalformedCatalog = errors.New("malformed catalog")
)

// AnnotationError wraps an annotator failure together with the text that caused it.
type AnnotationError struct {
	Text string
	Err  error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrAnnotationFailed, truncateRunes(e.Text, 60), e.Err)
}

func (e *AnnotationError) Unwrap() error { return e.Err }

// Is reports ErrAnnotationFailed as a match so callers can test with errors.Is.
func (e *AnnotationError) Is(target error) bool { return target == ErrAnnotationFailed }

// CatalogError describes why catalog data was rejected.
type CatalogError struct {
	Reason string
	Value  string
}

func (e *CatalogError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%v: %s", ErrMalformedCatalog, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %q", ErrMalformedCatalog, e.Reason, e.Value)
}

func (e *CatalogError) Is(target error) bool { return target == ErrMalformedCatalog }

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
