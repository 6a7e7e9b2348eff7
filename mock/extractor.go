package mock

import "github.com/fwojciec/labdoc"

var _ labdoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of labdoc.Extractor.
type Extractor struct {
	ExtractFn func(raw string) *labdoc.ExtractionRecord
}

func (e *Extractor) Extract(raw string) *labdoc.ExtractionRecord {
	return e.ExtractFn(raw)
}
