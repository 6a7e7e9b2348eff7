package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/labdoc"
)

// Ensure LoggingClassifier implements labdoc.Classifier.
var _ labdoc.Classifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a Classifier with debug logging.
type LoggingClassifier struct {
	next   labdoc.Classifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next labdoc.Classifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs the result.
func (c *LoggingClassifier) Classify(text string) labdoc.DocType {
	begin := time.Now()
	docType := c.next.Classify(text)
	c.logger.Debug("classify",
		"doc_type", string(docType),
		"duration", time.Since(begin),
	)
	return docType
}
