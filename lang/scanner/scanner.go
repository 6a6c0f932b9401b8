package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/vellumlang/vellum/lang/diagnostic"
	"github.com/vellumlang/vellum/lang/source"
)

// Lexeme is one scanned token: its kind, the literal text it spans, and its
// position. Numeric/string/char literals carry their decoded value in
// IntValue/FloatValue/StringValue/RuneValue so the parser never re-parses
// text.
type Lexeme struct {
	Token    Token
	Text     string
	Position source.Position

	IntValue    int64
	FloatValue  float64
	StringValue string
	RuneValue   rune
	ByteValue   byte
}

// Scanner turns one file's bytes into a Lexeme stream on demand via Next.
// Grounded in the teacher's scanner package, which wraps go/scanner for
// errors; Vellum's scanner is self-contained (the surface grammar isn't
// Go-like enough to reuse go/scanner's actual tokenizer) but keeps the same
// "accumulate, don't stop at first error" posture via diagnostic.List.
type Scanner struct {
	file   source.FileID
	src    []byte
	offset int
	diags  *diagnostic.List
}

// New returns a scanner over src, registered as file in fset's diagnostics.
func New(file source.FileID, src []byte, diags *diagnostic.List) *Scanner {
	return &Scanner{file: file, src: src, diags: diags}
}

func (s *Scanner) pos(start int) source.Position {
	return source.Position{File: s.file, Start: uint32(start), End: uint32(s.offset)}
}

func (s *Scanner) peek() byte {
	if s.offset >= len(s.src) {
		return 0
	}
	return s.src[s.offset]
}

func (s *Scanner) peekAt(n int) byte {
	if s.offset+n >= len(s.src) {
		return 0
	}
	return s.src[s.offset+n]
}

func (s *Scanner) advance() byte {
	b := s.src[s.offset]
	s.offset++
	return b
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }

// Next scans and returns the next lexeme. At end of input it returns a
// Lexeme with Token == EOF repeatedly.
func (s *Scanner) Next() Lexeme {
	s.skipTrivia()
	start := s.offset
	if s.offset >= len(s.src) {
		return Lexeme{Token: EOF, Position: s.pos(start)}
	}

	b := s.advance()
	switch {
	case isDigit(b):
		return s.scanNumber(start)
	case isAlpha(b):
		return s.scanIdent(start)
	}

	switch b {
	case '"':
		return s.scanString(start)
	case '\'':
		return s.scanChar(start)
	case '+':
		return s.maybe('=', start, PLUS_EQ, PLUS)
	case '-':
		if s.peek() == '>' {
			s.advance()
			return s.simple(start, ARROW)
		}
		return s.maybe('=', start, MINUS_EQ, MINUS)
	case '*':
		if s.peek() == '*' {
			s.advance()
			return s.simple(start, CARET)
		}
		return s.maybe('=', start, STAR_EQ, STAR)
	case '/':
		return s.maybe('=', start, SLASH_EQ, SLASH)
	case '%':
		return s.simple(start, PERCENT)
	case '^':
		return s.simple(start, XOR)
	case '~':
		return s.simple(start, TILDE)
	case '&':
		return s.maybe('&', start, AMP_AMP, AMP)
	case '|':
		return s.maybe('|', start, PIPE_PIPE, PIPE)
	case '<':
		if s.peek() == '<' {
			s.advance()
			return s.simple(start, SHL)
		}
		return s.maybe('=', start, LT_EQ, LT)
	case '>':
		if s.peek() == '>' {
			s.advance()
			return s.simple(start, SHR)
		}
		return s.maybe('=', start, GT_EQ, GT)
	case '=':
		return s.maybe('=', start, EQ_EQ, EQ)
	case '!':
		return s.maybe('=', start, BANG_EQ, BANG)
	case '(':
		return s.simple(start, LPAREN)
	case ')':
		return s.simple(start, RPAREN)
	case '{':
		return s.simple(start, LBRACE)
	case '}':
		return s.simple(start, RBRACE)
	case '[':
		return s.simple(start, LBRACKET)
	case ']':
		return s.simple(start, RBRACKET)
	case ',':
		return s.simple(start, COMMA)
	case ';':
		return s.simple(start, SEMI)
	case ':':
		return s.simple(start, COLON)
	case '.':
		return s.simple(start, DOT)
	}

	pos := s.pos(start)
	s.diags.Addf(pos, "illegal character", "unexpected byte %q", b)
	return Lexeme{Token: ILLEGAL, Text: string(b), Position: pos}
}

func (s *Scanner) simple(start int, t Token) Lexeme {
	return Lexeme{Token: t, Text: string(s.src[start:s.offset]), Position: s.pos(start)}
}

func (s *Scanner) maybe(next byte, start int, withNext, without Token) Lexeme {
	if s.peek() == next {
		s.advance()
		return s.simple(start, withNext)
	}
	return s.simple(start, without)
}

func (s *Scanner) skipTrivia() {
	for s.offset < len(s.src) {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.offset++
		case '/':
			if s.peekAt(1) == '/' {
				for s.offset < len(s.src) && s.src[s.offset] != '\n' {
					s.offset++
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func (s *Scanner) scanIdent(start int) Lexeme {
	for isAlnum(s.peek()) {
		s.advance()
	}
	text := string(s.src[start:s.offset])
	pos := s.pos(start)
	tok := Lookup(text)
	l := Lexeme{Token: tok, Text: text, Position: pos}
	return l
}

func (s *Scanner) scanNumber(start int) Lexeme {
	isFloat := false
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		isFloat = true
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	if s.peek() == 'b' && !isFloat {
		// byte literal suffix, e.g. 255b
		text := string(s.src[start:s.offset])
		s.advance()
		pos := s.pos(start)
		n, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			s.diags.Addf(pos, "invalid byte literal", "%s does not fit in a byte", text)
		}
		return Lexeme{Token: BYTE_LITERAL, Text: text, Position: pos, ByteValue: byte(n)}
	}
	text := string(s.src[start:s.offset])
	pos := s.pos(start)
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			s.diags.Addf(pos, "invalid float literal", "%s: %v", text, err)
		}
		return Lexeme{Token: FLOAT, Text: text, Position: pos, FloatValue: f}
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		s.diags.Addf(pos, "invalid integer literal", "%s: %v", text, err)
	}
	return Lexeme{Token: INTEGER, Text: text, Position: pos, IntValue: n}
}

func (s *Scanner) scanString(start int) Lexeme {
	var decoded []byte
	for s.offset < len(s.src) && s.peek() != '"' {
		b := s.advance()
		if b == '\\' && s.offset < len(s.src) {
			decoded = append(decoded, decodeEscape(s.advance()))
			continue
		}
		decoded = append(decoded, b)
	}
	pos := s.pos(start)
	if s.offset >= len(s.src) {
		s.diags.Addf(pos, "unterminated string", "missing closing quote")
	} else {
		s.advance()
	}
	return Lexeme{Token: STRING, Text: string(s.src[start:s.offset]), Position: pos, StringValue: string(decoded)}
}

func (s *Scanner) scanChar(start int) Lexeme {
	var r rune
	if s.peek() == '\\' {
		s.advance()
		r = rune(decodeEscape(s.advance()))
	} else {
		ru, size := utf8.DecodeRune(s.src[s.offset:])
		r = ru
		s.offset += size
	}
	pos := s.pos(start)
	if s.peek() == '\'' {
		s.advance()
	} else {
		s.diags.Addf(pos, "unterminated character literal", "missing closing quote")
	}
	return Lexeme{Token: CHARACTER, Text: string(s.src[start:s.offset]), Position: pos, RuneValue: r}
}

func decodeEscape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return b
	}
}
