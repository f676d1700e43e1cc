// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/tsawler/tabula/core"
)

// tjSpaceThreshold is the TJ kerning adjustment, in thousandths of an em,
// beyond which a word gap is assumed.
const tjSpaceThreshold = -200

// ContentText returns the text shown by a page content stream. Strings are
// decoded as PDFDocEncoding (or UTF-16BE with a byte order mark); fonts with
// custom encodings are not resolved. Line breaks are inferred from T*, ',
// ", ET and from Td/TD/Tm moves that change the vertical position.
func ContentText(data []byte) string {
	var (
		out   textWriter
		lastY float64
		haveY bool
	)
	s := newScanner(data)
	for {
		op, operands, ok := s.next()
		if !ok {
			break
		}

		switch op {
		case "Tj":
			out.operandText(operands)
		case "'", `"`:
			out.newline()
			out.operandText(operands)
		case "TJ":
			for _, arr := range operands {
				for _, item := range arr.items {
					switch item.kind {
					case operandString:
						out.text(item.text)
					case operandNumber:
						if item.num < tjSpaceThreshold {
							out.space()
						}
					}
				}
			}
		case "T*", "ET":
			out.newline()
		case "Td", "TD":
			if nums := numbers(operands); len(nums) >= 2 && nums[1] != 0 {
				out.newline()
			} else {
				out.space()
			}
		case "Tm":
			if nums := numbers(operands); len(nums) == 6 {
				if haveY && nums[5] != lastY {
					out.newline()
				} else {
					out.space()
				}
				lastY, haveY = nums[5], true
			}
		case "ID":
			s.skipInlineImage()
		}
	}
	return strings.TrimSpace(out.String())
}

func numbers(operands []operand) []float64 {
	var nums []float64
	for _, op := range operands {
		if op.kind == operandNumber {
			nums = append(nums, op.num)
		}
	}
	return nums
}

// textWriter accumulates page text without doubling separators.
type textWriter struct {
	strings.Builder
	last rune
}

func (w *textWriter) text(s string) {
	for _, r := range s {
		if r == '\n' || r == '\r' {
			w.newline()
			continue
		}
		if unicode.IsPrint(r) || r == '\t' {
			w.WriteRune(r)
			w.last = r
		}
	}
}

func (w *textWriter) operandText(operands []operand) {
	for _, op := range operands {
		if op.kind == operandString {
			w.text(op.text)
		}
	}
}

func (w *textWriter) space() {
	if w.Len() > 0 && w.last != ' ' && w.last != '\n' {
		w.WriteByte(' ')
		w.last = ' '
	}
}

func (w *textWriter) newline() {
	if w.Len() > 0 && w.last != '\n' {
		w.WriteByte('\n')
		w.last = '\n'
	}
}

type operandKind int

const (
	operandString operandKind = iota
	operandNumber
	operandArray
	operandOther
)

type operand struct {
	kind  operandKind
	text  string
	num   float64
	items []operand
}

// scanner groups lexer tokens into operators and their operands. Strings
// inside dictionaries are not shown text and are dropped.
type scanner struct {
	lx       *core.Lexer
	operands []operand
	arrays   [][]operand
	dicts    int
}

func newScanner(data []byte) *scanner {
	return &scanner{lx: core.NewLexer(bytes.NewReader(data))}
}

// next returns the next operator with the operands that precede it.
func (s *scanner) next() (string, []operand, bool) {
	s.operands = s.operands[:0]
	for {
		tok, err := s.lx.NextToken()
		if err != nil {
			op, ok := s.skipInvalid()
			if !ok {
				return "", nil, false
			}
			if op != "" {
				return op, s.operands, true
			}
			continue
		}

		switch tok.Type {
		case core.TokenEOF:
			return "", nil, false
		case core.TokenComment:
		case core.TokenDictStart:
			s.dicts++
		case core.TokenDictEnd:
			if s.dicts > 0 {
				s.dicts--
			}
		case core.TokenArrayStart:
			s.arrays = append(s.arrays, nil)
		case core.TokenArrayEnd:
			if n := len(s.arrays); n > 0 {
				items := s.arrays[n-1]
				s.arrays = s.arrays[:n-1]
				s.push(operand{kind: operandArray, items: items})
			}
		case core.TokenString:
			s.push(operand{kind: operandString, text: decodeText(tok.Value)})
		case core.TokenHexString:
			s.push(operand{kind: operandString, text: decodeText(hexBytes(tok.Value))})
		case core.TokenInteger, core.TokenReal:
			if n, err := strconv.ParseFloat(string(tok.Value), 64); err == nil {
				s.push(operand{kind: operandNumber, num: n})
			}
		case core.TokenKeyword, core.TokenIndirectRef:
			word := string(tok.Value)
			switch word {
			case "true", "false", "null":
				s.push(operand{kind: operandOther})
				continue
			}
			if b, err := s.lx.Peek(); err == nil && b == '*' {
				s.lx.ReadByte()
				word += "*"
			}
			if s.dicts > 0 || len(s.arrays) > 0 {
				continue
			}
			return word, s.operands, true
		default:
			s.push(operand{kind: operandOther})
		}
	}
}

func (s *scanner) push(op operand) {
	switch {
	case s.dicts > 0:
	case len(s.arrays) > 0:
		n := len(s.arrays) - 1
		s.arrays[n] = append(s.arrays[n], op)
	default:
		s.operands = append(s.operands, op)
	}
}

// skipInvalid handles bytes the lexer rejects. The quote operators come back
// as operator names; other stray delimiters are skipped.
func (s *scanner) skipInvalid() (string, bool) {
	b, err := s.lx.Peek()
	if err != nil {
		return "", false
	}
	switch b {
	case '\'', '"':
		s.lx.ReadByte()
		return string(b), true
	case '[', ']', '(', '<', '/', '%', '+', '-', '.':
		return "", true
	}
	if b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || isWhite(b) {
		return "", true
	}
	s.lx.ReadByte()
	return "", true
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

// skipInlineImage moves past binary inline image data up to the EI operator.
// ID is followed by a single whitespace byte before the data.
func (s *scanner) skipInlineImage() {
	s.lx.ReadByte()
	prev := [2]byte{' ', ' '}
	for {
		b, err := s.lx.ReadByte()
		if err != nil {
			return
		}
		if prev[1] == 'E' && b == 'I' && isWhite(prev[0]) {
			next, err := s.lx.Peek()
			if err != nil || isWhite(next) {
				return
			}
		}
		prev[0], prev[1] = prev[1], b
	}
}

// hexBytes decodes the digits of a hex string, padding an odd final digit
// with zero.
func hexBytes(digits []byte) []byte {
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, hex.DecodedLen(len(digits)))
	n, _ := hex.Decode(out, digits)
	return out[:n]
}

// decodeText converts a PDF string to UTF-8. Strings starting with a UTF-16BE
// byte order mark are decoded as such; everything else is read as
// PDFDocEncoding, approximated by Latin-1.
func decodeText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		u := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(u))
	}
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}
