// Package train turns operator annotations into extraction rules.
package train

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/fwojciec/labdoc"
)

var _ labdoc.Trainer = (*Ingestor)(nil)

// Context limits. Labels longer than maxLabelWords words are cut to the
// words nearest the example.
const (
	maxPrefix     = 32
	maxSuffix     = 16
	maxLabelWords = 3
)

// separator matches the punctuation and spacing between a label, its value
// and a trailing unit.
const separator = `[^\pL\pN\n]*`

// Ingestor synthesizes patterns from highlighted examples and records them
// in a rule store.
type Ingestor struct {
	Rules labdoc.RuleStore
}

// NewIngestor creates an Ingestor writing to store.
func NewIngestor(store labdoc.RuleStore) *Ingestor {
	return &Ingestor{Rules: store}
}

// Train synthesizes a pattern for req and adds it to the field's rule.
// Returns EPATTERN, without writing, if the pattern does not reproduce the
// example from its context.
func (i *Ingestor) Train(ctx context.Context, req labdoc.TrainingRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	pattern, example, err := Synthesize(req.Example, req.Context)
	if err != nil {
		return err
	}

	return i.Rules.AddRule(ctx, req.DocType, req.Field, pattern, &example)
}

// AddPattern validates a hand-written expression and adds it to the front
// of the field's rule.
func (i *Ingestor) AddPattern(ctx context.Context, docType labdoc.DocType, field string, expr string) error {
	if err := docType.Validate(); err != nil {
		return err
	}
	if field == "" {
		return labdoc.Errorf(labdoc.EINVALID, "field name required")
	}
	pattern := labdoc.Pattern{Expr: expr}
	if err := pattern.Validate(); err != nil {
		return err
	}
	return i.Rules.AddRule(ctx, docType, field, pattern, nil)
}

// EditPattern replaces the active pattern of a field.
func (i *Ingestor) EditPattern(ctx context.Context, docType labdoc.DocType, field string, expr string) error {
	pattern := labdoc.Pattern{Expr: expr}
	if err := pattern.Validate(); err != nil {
		return err
	}
	return i.Rules.ReplaceActivePattern(ctx, docType, field, pattern)
}

// Synthesize builds a pattern that captures example. The capture is the
// literal example with whitespace runs generalized. When context contains
// the example, the label directly before it and a short word after it on
// the same line anchor the capture. The returned example records the context line and the
// captured span.
func Synthesize(example, context string) (labdoc.Pattern, labdoc.Example, error) {
	words := strings.Fields(example)
	if len(words) == 0 {
		return labdoc.Pattern{}, labdoc.Example{}, labdoc.Errorf(labdoc.EINVALID, "example text required")
	}
	capture := "(" + literal(words) + ")"

	text := labdoc.Normalize(context)
	if text == "" {
		p := labdoc.Pattern{Expr: capture}
		return p, labdoc.Example{Text: strings.Join(words, " "), Value: strings.Join(words, " ")}, p.Validate()
	}

	loc := regexp.MustCompile(capture).FindStringIndex(text)
	if loc == nil {
		return labdoc.Pattern{}, labdoc.Example{}, labdoc.Errorf(labdoc.EPATTERN, "example %q not found in context", example)
	}
	start, end := loc[0], loc[1]
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := len(text)
	if n := strings.IndexByte(text[end:], '\n'); n >= 0 {
		lineEnd = end + n
	}

	p := labdoc.Pattern{
		Prefix: prefixOf(text[lineStart:start]),
		Suffix: suffixOf(text[end:lineEnd]),
	}
	var expr strings.Builder
	if p.Prefix != "" {
		expr.WriteString(literal(strings.Fields(p.Prefix)))
		expr.WriteString(separator)
	}
	expr.WriteString(capture)
	if p.Suffix != "" {
		expr.WriteString(separator)
		expr.WriteString(literal(strings.Fields(p.Suffix)))
	}
	p.Expr = expr.String()

	re, err := p.Compile()
	if err != nil {
		return labdoc.Pattern{}, labdoc.Example{}, err
	}
	m := re.FindStringSubmatch(text)
	if m == nil || strings.Join(strings.Fields(m[1]), " ") != strings.Join(words, " ") {
		return labdoc.Pattern{}, labdoc.Example{}, labdoc.Errorf(labdoc.EPATTERN, "pattern %q does not reproduce example %q", p.Expr, example)
	}

	return p, labdoc.Example{Text: strings.TrimSpace(text[lineStart:lineEnd]), Value: text[start:end]}, nil
}

// prefixOf returns the label that ends before, or "". The label is at
// most maxLabelWords words taken back from the end of before. It stops at
// a column gap, a word carrying a digit, a word without letters or digits,
// and the colon of an earlier label. Punctuation at its edges is dropped.
func prefixOf(before string) string {
	before = strings.TrimRightFunc(before, unicode.IsSpace)
	if i := strings.LastIndexByte(before, '\t'); i >= 0 {
		before = before[i+1:]
	}
	words := strings.Fields(before)
	var kept []string
	for i := len(words) - 1; i >= 0 && len(kept) < maxLabelWords; i-- {
		w := words[i]
		if i < len(words)-1 && strings.HasSuffix(w, ":") {
			break
		}
		if trimEdges(w) == "" || strings.IndexFunc(w, unicode.IsDigit) >= 0 {
			break
		}
		kept = append([]string{w}, kept...)
	}
	label := trimEdges(strings.Join(kept, " "))
	for len([]rune(label)) > maxPrefix {
		_, rest, ok := strings.Cut(label, " ")
		if !ok {
			r := []rune(label)
			return trimEdges(string(r[len(r)-maxPrefix:]))
		}
		label = trimEdges(rest)
	}
	return label
}

// suffixOf returns the first word of after, up to the next column gap, or
// "". A word that starts the next label is not a suffix.
func suffixOf(after string) string {
	after = strings.TrimLeftFunc(after, unicode.IsSpace)
	if i := strings.IndexByte(after, '\t'); i >= 0 {
		after = after[:i]
	}
	words := strings.Fields(after)
	for i, w := range words {
		if strings.HasSuffix(w, ":") {
			return ""
		}
		if word := trimEdges(w); word != "" {
			if i+1 < len(words) && strings.HasSuffix(words[i+1], ":") {
				return ""
			}
			r := []rune(word)
			if len(r) > maxSuffix {
				return ""
			}
			return word
		}
	}
	return ""
}

// trimEdges drops leading and trailing runes that are neither letters nor
// digits, keeping brackets that open or close a word.
func trimEdges(s string) string {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '(' && r != '['
	})
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ')' && r != ']'
	})
	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
		return ""
	}
	return s
}

func literal(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, `\s+`)
}
