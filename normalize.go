package labdoc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes whitespace in raw document text.
//
// Line structure is preserved: table parsing and label scanning are line
// oriented. Within a line a single space is kept, while any run of two or
// more whitespace characters (or any tab) becomes one tab marking a column
// gap. Three or more consecutive blank lines collapse to one.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFC.String(s)
	s = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n", "\v", "\n").Replace(s)

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = collapseLine(line)
		if line == "" {
			blanks++
			continue
		}
		if len(out) > 0 && blanks > 0 {
			// 1-2 blank lines survive as-is, more collapse to one
			if blanks >= 3 {
				blanks = 1
			}
			for i := 0; i < blanks; i++ {
				out = append(out, "")
			}
		}
		blanks = 0
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// collapseLine trims a line and rewrites its internal whitespace runs.
func collapseLine(line string) string {
	var sb strings.Builder
	sb.Grow(len(line))

	run := 0
	tab := false
	flush := func() {
		if run == 0 {
			return
		}
		if sb.Len() > 0 {
			if tab || run > 1 {
				sb.WriteByte('\t')
			} else {
				sb.WriteByte(' ')
			}
		}
		run = 0
		tab = false
	}

	for _, r := range line {
		if unicode.IsSpace(r) {
			run++
			if r == '\t' {
				tab = true
			}
			continue
		}
		flush()
		sb.WriteRune(r)
	}

	return sb.String()
}
