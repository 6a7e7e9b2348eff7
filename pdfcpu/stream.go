package pdfcpu

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// kerningGap is the TJ displacement, in thousandths of a text space unit,
// beyond which an adjustment is read as a word space.
const kerningGap = -200

// StreamText recovers the text shown by a page content stream. Text
// positioning that moves to a new line becomes a newline and horizontal
// jumps on the same line become tabs, so table columns survive as gaps.
func StreamText(data []byte) string {
	p := &streamParser{data: data}
	p.run()
	return strings.TrimSpace(p.out.String())
}

type streamParser struct {
	data []byte
	pos  int
	out  strings.Builder

	strs    []string
	nums    []float64
	inArray bool

	// y is the baseline of the text position and lineY the baseline of
	// the line being written.
	y       float64
	lineY   float64
	hasLine bool
}

func (p *streamParser) run() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case isWhite(c):
			p.pos++
		case c == '%':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		case c == '(':
			p.strs = append(p.strs, p.literal())
		case c == '<' && p.peek(1) == '<', c == '>' && p.peek(1) == '>':
			p.pos += 2
		case c == '<':
			p.strs = append(p.strs, p.hex())
		case c == '[':
			p.inArray = true
			p.pos++
		case c == ']':
			p.inArray = false
			p.pos++
		case c == '/':
			p.pos++
			p.word()
		case c == '{' || c == '}' || c == '>' || c == ')':
			p.pos++
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			n, err := strconv.ParseFloat(p.word(), 64)
			if err != nil {
				continue
			}
			if p.inArray {
				if n <= kerningGap {
					p.strs = append(p.strs, " ")
				}
				continue
			}
			p.nums = append(p.nums, n)
		case c == '\'' || c == '"':
			p.pos++
			p.operator(string(c))
		default:
			p.operator(p.word())
		}
	}
}

func (p *streamParser) operator(op string) {
	switch op {
	case "BT":
		p.y = 0
	case "Tj", "TJ":
		p.out.WriteString(strings.Join(p.strs, ""))
	case "'", "\"":
		p.newline()
		p.hasLine = false
		p.out.WriteString(strings.Join(p.strs, ""))
	case "T*":
		p.newline()
		p.hasLine = false
	case "Td", "TD":
		if len(p.nums) >= 2 {
			p.y += p.nums[len(p.nums)-1]
			p.moveTo(p.y)
		}
	case "Tm":
		if len(p.nums) >= 6 {
			p.y = p.nums[len(p.nums)-1]
			p.moveTo(p.y)
		}
	case "ET":
		p.gap()
	}
	p.strs = p.strs[:0]
	p.nums = p.nums[:0]
}

// moveTo starts a new line unless y is the baseline of the current one.
func (p *streamParser) moveTo(y float64) {
	if p.hasLine && y == p.lineY {
		p.gap()
	} else {
		p.newline()
	}
	p.lineY, p.hasLine = y, true
}

func (p *streamParser) newline() {
	if p.out.Len() == 0 {
		return
	}
	s := p.out.String()
	if strings.HasSuffix(s, "\t") {
		p.out.Reset()
		p.out.WriteString(strings.TrimRight(s, "\t"))
	}
	if !strings.HasSuffix(p.out.String(), "\n") {
		p.out.WriteByte('\n')
	}
}

func (p *streamParser) gap() {
	if p.out.Len() == 0 {
		return
	}
	s := p.out.String()
	if !strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, "\t") {
		p.out.WriteByte('\t')
	}
}

func (p *streamParser) peek(n int) byte {
	if p.pos+n < len(p.data) {
		return p.data[p.pos+n]
	}
	return 0
}

// word consumes a run of regular characters.
func (p *streamParser) word() string {
	start := p.pos
	for p.pos < len(p.data) && !isWhite(p.data[p.pos]) && !isDelim(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// literal consumes a parenthesized string with nested parentheses and
// escape sequences.
func (p *streamParser) literal() string {
	var b []byte
	depth := 0
	p.pos++
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '(':
			depth++
			b = append(b, c)
		case ')':
			if depth == 0 {
				return decode(b)
			}
			depth--
			b = append(b, c)
		case '\\':
			if p.pos >= len(p.data) {
				continue
			}
			e := p.data[p.pos]
			p.pos++
			switch e {
			case 'n':
				b = append(b, '\n')
			case 'r':
				b = append(b, '\r')
			case 't':
				b = append(b, '\t')
			case 'b':
				b = append(b, '\b')
			case 'f':
				b = append(b, '\f')
			case '\r':
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2 && p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '7'; k++ {
						v = v*8 + int(p.data[p.pos]-'0')
						p.pos++
					}
					b = append(b, byte(v))
				} else {
					b = append(b, e)
				}
			}
		default:
			b = append(b, c)
		}
	}
	return decode(b)
}

// hex consumes a hexadecimal string.
func (p *streamParser) hex() string {
	p.pos++
	var digits []byte
	for p.pos < len(p.data) && p.data[p.pos] != '>' {
		if c := p.data[p.pos]; !isWhite(c) {
			digits = append(digits, c)
		}
		p.pos++
	}
	p.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	b := make([]byte, len(digits)/2)
	for i := range b {
		v, err := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
		if err != nil {
			return ""
		}
		b[i] = byte(v)
	}
	return decode(b)
}

// decode converts string bytes to UTF-8. Strings with a UTF-16 byte order
// mark are decoded as UTF-16BE, everything else as Windows-1252, which
// covers the printable range of the standard PDF text encodings.
func decode(b []byte) string {
	if bytes.HasPrefix(b, []byte{0xFE, 0xFF}) {
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}
