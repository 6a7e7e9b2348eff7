// Package classify identifies lab document formats from their text.
package classify

import (
	"strings"

	"github.com/fwojciec/labdoc"
)

var _ labdoc.Classifier = (*Classifier)(nil)

// Predicate reports whether folded document text satisfies a condition.
// Folded text is lower case with every whitespace run reduced to a single
// space.
type Predicate func(folded string) bool

// Contains matches text containing phrase, ignoring case and differences
// in whitespace.
func Contains(phrase string) Predicate {
	p := fold(phrase)
	return func(folded string) bool {
		return strings.Contains(folded, p)
	}
}

// All matches when every predicate matches.
func All(preds ...Predicate) Predicate {
	return func(folded string) bool {
		for _, p := range preds {
			if !p(folded) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one predicate matches.
func Any(preds ...Predicate) Predicate {
	return func(folded string) bool {
		for _, p := range preds {
			if p(folded) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(pred Predicate) Predicate {
	return func(folded string) bool {
		return !pred(folded)
	}
}

// Signature pairs a document type with the condition that identifies it.
type Signature struct {
	DocType labdoc.DocType
	Match   Predicate
}

// DefaultSignatures returns the built-in signatures in evaluation order.
// Vendor-specific formats come before the generic document kinds, and the
// more specific CHEMIPAN reference material signature before the generic
// CHEMIPAN one.
func DefaultSignatures() []Signature {
	chemipan := Contains("chemipan")
	return []Signature{
		{
			DocType: labdoc.DocTypeSigmaAldrichCOA,
			Match:   Any(Contains("sigma-aldrich"), Contains("sigma aldrich"), Contains("sigald")),
		},
		{
			DocType: labdoc.DocTypeChemipanBenzene,
			Match:   All(chemipan, Contains("reference material no. che usc")),
		},
		{
			DocType: labdoc.DocTypeChemipan,
			Match:   Any(chemipan, Contains("polish academy of sciences")),
		},
		{
			// Benzene certificates where the vendor name was lost in OCR.
			DocType: labdoc.DocTypeChemipanBenzene,
			Match:   All(Contains("benzene"), Contains("certified purity")),
		},
		{
			DocType: labdoc.DocTypeCOA,
			Match:   Contains("certificate of analysis"),
		},
		{
			DocType: labdoc.DocTypeSDS,
			Match:   Contains("safety data sheet"),
		},
		{
			DocType: labdoc.DocTypeTDS,
			Match:   Contains("technical data sheet"),
		},
	}
}

// Classifier evaluates signatures in a fixed order. The first match wins.
type Classifier struct {
	signatures []Signature
}

// NewClassifier creates a Classifier that evaluates signatures in the
// order given.
func NewClassifier(signatures []Signature) *Classifier {
	return &Classifier{signatures: signatures}
}

// Classify returns the document type of the first matching signature, or
// DocTypeUnknown.
func (c *Classifier) Classify(text string) labdoc.DocType {
	if text == "" {
		return labdoc.DocTypeUnknown
	}
	folded := fold(text)
	for _, sig := range c.signatures {
		if sig.Match(folded) {
			return sig.DocType
		}
	}
	return labdoc.DocTypeUnknown
}

func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
