package labdoc

import "context"

// TextSource recovers raw text from a document file.
// Implementations may be slow (PDF parsing); the context bounds them.
type TextSource interface {
	// ReadText returns the text of the document at path.
	// Returns EINVALID for unsupported file types and ENOTFOUND when the
	// file has no recoverable text.
	ReadText(ctx context.Context, path string) (string, error)
}
