package labdoc

import (
	"sort"
	"strings"
)

// FormatRecord formats an extraction record for display.
// Fields are listed in name order, test results in document order.
func FormatRecord(rec *ExtractionRecord) string {
	if rec == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Document type: ")
	b.WriteString(string(rec.DocType))
	b.WriteString("\n")

	if len(rec.Fields) > 0 {
		b.WriteString("\nFields:\n")
		names := make([]string, 0, len(rec.Fields))
		for name := range rec.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString("  ")
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(rec.Fields[name])
			b.WriteString("\n")
		}
	}

	if len(rec.TestResults) > 0 {
		b.WriteString("\nTest results:\n")
		for _, row := range rec.TestResults {
			b.WriteString("  ")
			b.WriteString(row.Test)
			b.WriteString(" | ")
			b.WriteString(row.Specification)
			b.WriteString(" | ")
			b.WriteString(row.Result)
			b.WriteString("\n")
		}
	}

	if len(rec.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range rec.Warnings {
			b.WriteString("  - ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}
