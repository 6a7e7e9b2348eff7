package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fwojciec/labdoc"
)

var (
	headerRe = regexp.MustCompile(`(?i)\btests?\b.*\bspecifications?\b.*\bresults?\b`)
	endRe    = regexp.MustCompile(`(?i)\b(?:recommended\s+retest|quality\s+control|quality\s+assurance|approved\s+by|authori[sz]ed\s+by|released\s+by|signature|remarks|this\s+certificate)`)

	// A signature blank is a caption followed by a line to sign on.
	signatureRe = regexp.MustCompile(`^[^_]*[A-Za-z][^_]*_{5,}\s*$`)
	dividerRe   = regexp.MustCompile(`^[\s\-_=.*~|+]+$`)
	pageRe      = regexp.MustCompile(`(?i)^-{2,}\s*page\s+\d+\s*-{2,}$`)
	columnRe    = regexp.MustCompile(`\t|\s{2,}|_{3,}`)

	expressionRe = regexp.MustCompile(`(?i)(?:(?:<=|>=|<|>|≤|≥|=|\bnmt\b|\bnlt\b|\bmax\.?|\bmin\.?)\s*` + number + `(?:\s*` + unit + `)?` +
		`|` + number + `\s*(?:-|–|to)\s*` + number + `(?:\s*` + unit + `)?)`)

	descriptiveRe = regexp.MustCompile(`(?i)^(?:` + descriptive + `)(?:\s+|$)`)
	valueWordRe   = regexp.MustCompile(`(?i)^(?:pass(?:es)?|fail(?:s)?|conforms?|complies|clear|colou?rless|liquid|solid|powder|white|nmt|nlt|max|min|none|negative|positive|n/?a|nd|not\s+detected)\b`)
)

const (
	number      = `\d+(?:[.,]\d+)?`
	unit        = `(?:%(?:\s*\(?[wv]/[wv]\)?)?|ppm|ppb|mg/kg|mg/l|µg/g|ug/g|g/ml|g/cm3|kg/l|meq/g|mg\s*koh/g|°c|cp|cst|mpa\.?s|apha|pt-co|hazen|ntu|µs/cm|us/cm|nm|mm|ml|mg|kg|g|min)`
	descriptive = `clear|colou?rless|liquid|solid|powder|white|conforms(?:\s+to\s+(?:structure|reference))?|complies|pass(?:es)?`
)

// continuationPhrases are lines that wrap onto the next line in known
// certificate layouts. They extend the previous test name.
var continuationPhrases = []string{
	"free from suspended matter or sediment",
	"free from suspended matter",
	"and sediment",
	"or sediment",
	"to structure",
	"(by icp)",
	"(by kf)",
	"(by gc)",
	"(by hplc)",
	"(by titration)",
}

// TableParse is the detailed outcome of parsing a test results section.
type TableParse struct {
	// Found reports whether a test results section header was located.
	Found bool

	Rows []labdoc.TestRow

	// Unparsed holds section lines that no row shape matched.
	Unparsed []string
}

// TableParser reads the test / specification / result table of a
// certificate. It works line by line on normalized text, where column
// gaps are tabs.
type TableParser struct{}

// NewTableParser creates a new TableParser.
func NewTableParser() *TableParser {
	return &TableParser{}
}

// Parse returns the test rows of the first results section in text, in
// document order. Returns an empty slice when there is no section.
func (p *TableParser) Parse(text string) []labdoc.TestRow {
	return p.ParseDetailed(text).Rows
}

// ParseDetailed parses the first results section in text and reports
// lines it could not interpret.
func (p *TableParser) ParseDetailed(text string) TableParse {
	result := TableParse{Rows: []labdoc.TestRow{}}

	lines := strings.Split(text, "\n")
	start, end, ok := locateSection(lines)
	if !ok {
		return result
	}
	result.Found = true

	body := make([]string, 0, end-start)
	for _, line := range lines[start:end] {
		line = strings.TrimSpace(line)
		if line == "" || dividerRe.MatchString(line) || pageRe.MatchString(line) || headerRe.MatchString(line) {
			continue
		}
		body = append(body, line)
	}

	for i := 0; i < len(body); i++ {
		line := body[i]
		next := func() (string, bool) {
			if i+1 < len(body) && isValueLine(body[i+1]) {
				i++
				return body[i], true
			}
			return "", false
		}

		if isContinuation(line) {
			if n := len(result.Rows); n > 0 {
				result.Rows[n-1].Test += " " + line
			} else {
				result.Unparsed = append(result.Unparsed, line)
			}
			continue
		}

		cols := splitColumns(line)

		if len(cols) >= 3 {
			result.Rows = append(result.Rows, labdoc.TestRow{
				Test:          cleanName(cols[0]),
				Specification: cols[1],
				Result:        strings.Join(cols[2:], " "),
			})
			continue
		}

		if name, spec, rest, ok := splitExpression(line); ok {
			if rest == "" {
				if v, ok := next(); ok {
					rest = v
				} else {
					rest = spec
				}
			}
			result.Rows = append(result.Rows, labdoc.TestRow{Test: name, Specification: spec, Result: rest})
			continue
		}

		if len(cols) == 2 && hasLetter(cols[0]) {
			row := labdoc.TestRow{Test: cleanName(cols[0]), Specification: cols[1], Result: cols[1]}
			if v, ok := next(); ok {
				row.Result = v
			}
			result.Rows = append(result.Rows, row)
			continue
		}

		if name, terms := splitDescriptive(line); terms != nil {
			if len(terms) > 2 || !hasLetter(name) || isValueLine(name) {
				result.Unparsed = append(result.Unparsed, line)
				continue
			}
			row := labdoc.TestRow{Test: name, Specification: terms[0], Result: terms[0]}
			if len(terms) == 2 {
				row.Result = terms[1]
			}
			result.Rows = append(result.Rows, row)
			continue
		}

		if len(cols) == 1 && hasLetter(line) && !isValueLine(line) {
			if spec, ok := next(); ok {
				row := labdoc.TestRow{Test: cleanName(line), Specification: spec, Result: spec}
				if v, ok := next(); ok {
					row.Result = v
				}
				result.Rows = append(result.Rows, row)
				continue
			}
		}

		result.Unparsed = append(result.Unparsed, line)
	}

	return result
}

// locateSection returns the line range of the results section body: the
// lines after the header up to the first end marker or end of text.
func locateSection(lines []string) (start, end int, ok bool) {
	start = -1
	for i, line := range lines {
		if headerRe.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}

	end = len(lines)
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if endRe.MatchString(line) || signatureRe.MatchString(line) {
			end = i
			break
		}
	}
	return start, end, true
}

// splitExpression splits a line shaped "name <expression> [result]".
func splitExpression(line string) (name, spec, rest string, ok bool) {
	for _, loc := range expressionRe.FindAllStringIndex(line, -1) {
		if !atBoundary(line, loc[0], loc[1]) {
			continue
		}
		name = cleanName(line[:loc[0]])
		if !hasLetter(name) {
			return "", "", "", false
		}
		spec = strings.TrimSpace(line[loc[0]:loc[1]])
		rest = strings.Join(splitColumns(line[loc[1]:]), " ")
		return name, spec, rest, true
	}
	return "", "", "", false
}

// splitDescriptive splits a line shaped "name term [term]", where terms are
// descriptive specifications or results such as "Clear" or "Conforms to
// Structure". The name ends at the first word that starts a term. Terms is
// nil unless everything after the name is a run of terms.
func splitDescriptive(line string) (name string, terms []string) {
	words := strings.Fields(line)
	for i := 1; i < len(words); i++ {
		rest := strings.Join(words[i:], " ")
		if !descriptiveRe.MatchString(rest) {
			continue
		}
		for rest != "" {
			loc := descriptiveRe.FindStringIndex(rest)
			if loc == nil {
				return "", nil
			}
			terms = append(terms, strings.TrimSpace(rest[:loc[1]]))
			rest = rest[loc[1]:]
		}
		return cleanName(strings.Join(words[:i], " ")), terms
	}
	return "", nil
}

// atBoundary reports whether the match line[start:end] is not embedded in
// a longer word or number.
func atBoundary(line string, start, end int) bool {
	if start > 0 {
		r := lastRune(line[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' {
			return false
		}
	}
	if end < len(line) {
		r := []rune(line[end:])[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func lastRune(s string) rune {
	r := []rune(s)
	return r[len(r)-1]
}

func splitColumns(line string) []string {
	var cols []string
	for _, part := range columnRe.Split(line, -1) {
		if part = strings.TrimSpace(part); part != "" {
			cols = append(cols, part)
		}
	}
	return cols
}

func isContinuation(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range continuationPhrases {
		if lower == phrase {
			return true
		}
	}
	return strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")") && !strings.ContainsAny(line[1:len(line)-1], "()\t")
}

// isValueLine reports whether a line holds a single value rather than the
// start of a new row.
func isValueLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || isContinuation(line) || len(splitColumns(line)) != 1 {
		return false
	}
	r := []rune(line)[0]
	if unicode.IsDigit(r) || strings.ContainsRune("<>≤≥=±", r) {
		return true
	}
	return valueWordRe.MatchString(line)
}

func cleanName(s string) string {
	return strings.Trim(s, " \t_:.")
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
