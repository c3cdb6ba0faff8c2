package admission

import (
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokOperator tokenKind = iota
	tokString
	tokNumber
	tokArray
	tokOther
)

type token struct {
	kind  tokenKind
	text  string
	num   float64
	items []token
}

// kerningGap is the TJ displacement (thousandths of text space) treated as
// a word gap.
const kerningGap = -250

// contentText returns the text painted by the show-text operators of a page
// content stream. Positioning operators become whitespace.
func contentText(content []byte) string {
	var (
		sb       strings.Builder
		operands []token
	)

	s := &contentScanner{b: content}
	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "Tj":
			writeLastString(&sb, operands)
		case "'", "\"":
			sb.WriteByte('\n')
			writeLastString(&sb, operands)
		case "TJ":
			if n := len(operands); n > 0 && operands[n-1].kind == tokArray {
				for _, it := range operands[n-1].items {
					switch {
					case it.kind == tokString:
						sb.WriteString(it.text)
					case it.kind == tokNumber && it.num <= kerningGap:
						sb.WriteByte(' ')
					}
				}
			}
		case "Td", "TD", "Tm":
			sb.WriteByte(' ')
		case "T*", "ET":
			sb.WriteByte('\n')
		case "ID":
			s.skipInlineImage()
		}
		operands = operands[:0]
	}

	return sb.String()
}

func writeLastString(sb *strings.Builder, operands []token) {
	if n := len(operands); n > 0 && operands[n-1].kind == tokString {
		sb.WriteString(operands[n-1].text)
	}
}

type contentScanner struct {
	b []byte
	i int
}

func isPDFSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *contentScanner) skipSpaceAndComments() {
	for s.i < len(s.b) {
		c := s.b[s.i]
		switch {
		case isPDFSpace(c):
			s.i++
		case c == '%':
			for s.i < len(s.b) && s.b[s.i] != '\n' && s.b[s.i] != '\r' {
				s.i++
			}
		default:
			return
		}
	}
}

func (s *contentScanner) next() (token, bool) {
	s.skipSpaceAndComments()
	if s.i >= len(s.b) {
		return token{}, false
	}

	c := s.b[s.i]
	switch {
	case c == '(':
		s.i++
		return token{kind: tokString, text: decodePDFText(s.literal())}, true
	case c == '<' && s.i+1 < len(s.b) && s.b[s.i+1] == '<':
		s.i += 2
		return token{kind: tokOther}, true
	case c == '>' && s.i+1 < len(s.b) && s.b[s.i+1] == '>':
		s.i += 2
		return token{kind: tokOther}, true
	case c == '<':
		s.i++
		return token{kind: tokString, text: decodePDFText(s.hex())}, true
	case c == '[':
		s.i++
		return s.array(), true
	case c == ']' || c == '>' || c == ')' || c == '{' || c == '}':
		s.i++
		return token{kind: tokOther}, true
	case c == '/':
		s.i++
		s.word()
		return token{kind: tokOther}, true
	}

	w := s.word()
	if w == "" {
		s.i++
		return token{kind: tokOther}, true
	}
	if n, err := strconv.ParseFloat(w, 64); err == nil {
		return token{kind: tokNumber, num: n}, true
	}
	return token{kind: tokOperator, text: w}, true
}

func (s *contentScanner) word() string {
	start := s.i
	for s.i < len(s.b) && !isPDFSpace(s.b[s.i]) && !isPDFDelimiter(s.b[s.i]) {
		s.i++
	}
	return string(s.b[start:s.i])
}

func (s *contentScanner) array() token {
	arr := token{kind: tokArray}
	for {
		s.skipSpaceAndComments()
		if s.i >= len(s.b) {
			return arr
		}
		if s.b[s.i] == ']' {
			s.i++
			return arr
		}
		tok, ok := s.next()
		if !ok {
			return arr
		}
		arr.items = append(arr.items, tok)
	}
}

// literal reads a (string) body; the opening parenthesis is consumed.
func (s *contentScanner) literal() []byte {
	var out []byte
	depth := 1

	for s.i < len(s.b) {
		c := s.b[s.i]
		s.i++

		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		case '\r':
			if s.i < len(s.b) && s.b[s.i] == '\n' {
				s.i++
			}
			out = append(out, '\n')
		case '\\':
			out = s.escape(out)
		default:
			out = append(out, c)
		}
	}
	return out
}

func (s *contentScanner) escape(out []byte) []byte {
	if s.i >= len(s.b) {
		return out
	}
	c := s.b[s.i]
	s.i++

	switch c {
	case 'n':
		return append(out, '\n')
	case 'r':
		return append(out, '\r')
	case 't':
		return append(out, '\t')
	case 'b':
		return append(out, '\b')
	case 'f':
		return append(out, '\f')
	case '\r':
		if s.i < len(s.b) && s.b[s.i] == '\n' {
			s.i++
		}
		return out
	case '\n':
		return out
	}

	if c >= '0' && c <= '7' {
		v := int(c - '0')
		for k := 0; k < 2 && s.i < len(s.b) && s.b[s.i] >= '0' && s.b[s.i] <= '7'; k++ {
			v = v*8 + int(s.b[s.i]-'0')
			s.i++
		}
		return append(out, byte(v))
	}

	return append(out, c)
}

// hex reads a <hex string> body; the opening bracket is consumed.
func (s *contentScanner) hex() []byte {
	var (
		out  []byte
		hi   byte
		half bool
	)

	for s.i < len(s.b) {
		c := s.b[s.i]
		s.i++
		if c == '>' {
			break
		}
		v, ok := hexValue(c)
		if !ok {
			continue
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out = append(out, hi<<4)
	}
	return out
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// skipInlineImage moves past inline image data up to and including the
// closing EI operator.
func (s *contentScanner) skipInlineImage() {
	if s.i < len(s.b) && isPDFSpace(s.b[s.i]) {
		s.i++
	}
	for s.i+1 < len(s.b) {
		if s.b[s.i] == 'E' && s.b[s.i+1] == 'I' &&
			(s.i == 0 || isPDFSpace(s.b[s.i-1])) &&
			(s.i+2 == len(s.b) || isPDFSpace(s.b[s.i+2])) {
			s.i += 2
			return
		}
		s.i++
	}
	s.i = len(s.b)
}

// winAnsiHigh maps WinAnsiEncoding bytes 0x80-0x9F, which differ from
// Latin-1.
var winAnsiHigh = [32]rune{
	'€', 0, '‚', 'ƒ', '„', '…', '†', '‡', 'ˆ', '‰', 'Š', '‹', 'Œ', 0, 'Ž', 0,
	0, '‘', '’', '“', '”', '•', '–', '—', '˜', '™', 'š', '›', 'œ', 0, 'ž', 'Ÿ',
}

// decodePDFText converts string bytes to text: UTF-16BE when the string
// carries a byte order mark, WinAnsi otherwise.
func decodePDFText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		return decodeUTF16BE(b[2:])
	}

	var sb strings.Builder
	for _, c := range b {
		switch {
		case c == '\t' || c == '\n' || c == '\r':
			sb.WriteByte(c)
		case c < 0x20 || c == 0x7F:
		case c >= 0x80 && c <= 0x9F:
			if r := winAnsiHigh[c-0x80]; r != 0 {
				sb.WriteRune(r)
			}
		default:
			sb.WriteRune(rune(c))
		}
	}
	return sb.String()
}

func decodeUTF16BE(b []byte) string {
	var sb strings.Builder
	for i := 0; i+1 < len(b); i += 2 {
		r := rune(b[i])<<8 | rune(b[i+1])
		if r >= 0xD800 && r < 0xDC00 && i+3 < len(b) {
			lo := rune(b[i+2])<<8 | rune(b[i+3])
			if lo >= 0xDC00 && lo < 0xE000 {
				sb.WriteRune((r-0xD800)<<10 + (lo - 0xDC00) + 0x10000)
				i += 2
				continue
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
