package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fwojciec/labdoc"
)

// metadataWords mark generic labels that describe the document rather
// than a test. They are kept out of generic test rows.
var metadataWords = map[string]bool{
	"date":   true,
	"number": true,
	"name":   true,
	"no":     true,
	"lot":    true,
	"batch":  true,
}

var nonWordRe = regexp.MustCompile(`[^\pL\pN]+`)

// FieldExtractor applies the rule cascade of a document type's schema.
type FieldExtractor struct {
	Rules labdoc.RuleStore
}

// NewFieldExtractor creates a FieldExtractor that reads rules from store.
func NewFieldExtractor(store labdoc.RuleStore) *FieldExtractor {
	return &FieldExtractor{Rules: store}
}

// Extract returns the field values found in normalized text using the
// current schema for docType.
func (e *FieldExtractor) Extract(docType labdoc.DocType, text string) map[string]string {
	return ExtractFields(e.Rules.Schema(docType), text)
}

// ExtractFields applies schema to normalized text. For every field the
// patterns are tried in order and the first match wins; unmatched fields
// are omitted. The unknown schema is followed by a generic label scan
// that fills fields its rules did not produce.
func ExtractFields(schema *labdoc.DocumentSchema, text string) map[string]string {
	fields := make(map[string]string)
	if text == "" || schema == nil {
		return fields
	}

	for _, rule := range schema.Fields {
		for _, p := range rule.Patterns {
			re, err := p.Compile()
			if err != nil {
				continue
			}
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if v := strings.TrimSpace(m[1]); v != "" {
				fields[rule.Name] = v
				break
			}
		}
	}

	if schema.DocType == labdoc.DocTypeUnknown {
		for _, pair := range labelPairs(text) {
			if _, ok := fields[pair.key]; !ok {
				fields[pair.key] = pair.value
			}
		}
	}

	return fields
}

// GenericTestRows turns generic label/value lines into test rows, leaving
// out labels that name document metadata.
func GenericTestRows(text string) []labdoc.TestRow {
	rows := []labdoc.TestRow{}
	for _, pair := range labelPairs(text) {
		if isMetadataLabel(pair.label) {
			continue
		}
		rows = append(rows, labdoc.TestRow{Test: pair.label, Specification: pair.value, Result: pair.value})
	}
	return rows
}

type labelPair struct {
	label string
	key   string
	value string
}

// labelPairs scans lines shaped "Label: value" or "Label<gap>value",
// outside any test results section. Only the first occurrence of each
// key is returned.
func labelPairs(text string) []labelPair {
	lines := strings.Split(text, "\n")
	skipFrom, skipTo, hasSection := locateSection(lines)

	var pairs []labelPair
	seen := make(map[string]bool)
	add := func(label, value string) {
		label = cleanName(label)
		value = strings.TrimSpace(value)
		if !isLabel(label) || value == "" {
			return
		}
		key := snakeCase(label)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		pairs = append(pairs, labelPair{label: label, key: key, value: value})
	}

	for i, line := range lines {
		// The header line itself is skipped along with the body.
		if hasSection && i >= skipFrom-1 && i < skipTo {
			continue
		}
		cells := strings.Split(strings.TrimSpace(line), "\t")

		if len(cells) == 2 && !strings.Contains(cells[0], ":") {
			add(cells[0], cells[1])
			continue
		}

		for j := 0; j < len(cells); j++ {
			label, value, ok := strings.Cut(cells[j], ":")
			if !ok {
				continue
			}
			if strings.TrimSpace(value) == "" && j+1 < len(cells) {
				j++
				value = cells[j]
			}
			add(label, value)
		}
	}
	return pairs
}

// isLabel reports whether s reads like a short field caption.
func isLabel(s string) bool {
	if s == "" || len(s) > 40 || !hasLetter(s) {
		return false
	}
	if len(strings.Fields(s)) > 5 {
		return false
	}
	return unicode.IsLetter([]rune(s)[0])
}

func isMetadataLabel(label string) bool {
	for _, tok := range strings.Fields(nonWordRe.ReplaceAllString(strings.ToLower(label), " ")) {
		if metadataWords[tok] {
			return true
		}
	}
	return false
}

func snakeCase(label string) string {
	return strings.Trim(nonWordRe.ReplaceAllString(strings.ToLower(label), "_"), "_")
}
