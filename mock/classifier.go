package mock

import "github.com/fwojciec/labdoc"

var _ labdoc.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of labdoc.Classifier.
type Classifier struct {
	ClassifyFn func(text string) labdoc.DocType
}

func (c *Classifier) Classify(text string) labdoc.DocType {
	return c.ClassifyFn(text)
}
