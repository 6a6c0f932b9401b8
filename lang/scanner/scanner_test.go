package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/vellum/lang/diagnostic"
)

func scanAll(t *testing.T, src string) []Lexeme {
	t.Helper()
	diags := diagnostic.NewList(nil)
	sc := New(1, []byte(src), diags)
	var out []Lexeme
	for {
		l := sc.Next()
		out = append(out, l)
		if l.Token == EOF {
			break
		}
	}
	require.Equal(t, 0, diags.Len(), "unexpected diagnostics: %v", diags.Items())
	return out
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll(t, "42 3.14 255b")
	require.Len(t, toks, 4)
	assert.Equal(t, INTEGER, toks[0].Token)
	assert.Equal(t, int64(42), toks[0].IntValue)
	assert.Equal(t, FLOAT, toks[1].Token)
	assert.InDelta(t, 3.14, toks[1].FloatValue, 1e-9)
	assert.Equal(t, BYTE_LITERAL, toks[2].Token)
	assert.Equal(t, byte(255), toks[2].ByteValue)
}

func TestScanStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb"`)
	require.Len(t, toks, 2)
	assert.Equal(t, STRING, toks[0].Token)
	assert.Equal(t, "a\nb", toks[0].StringValue)
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "let mut x fn")
	require.Len(t, toks, 5)
	assert.Equal(t, KW_LET, toks[0].Token)
	assert.Equal(t, KW_MUT, toks[1].Token)
	assert.Equal(t, IDENT, toks[2].Token)
	assert.Equal(t, KW_FN, toks[3].Token)
}

func TestScanOperators(t *testing.T) {
	toks := scanAll(t, "+= ** >> == != ->")
	kinds := make([]Token, 0, len(toks)-1)
	for _, tok := range toks {
		if tok.Token == EOF {
			break
		}
		kinds = append(kinds, tok.Token)
	}
	assert.Equal(t, []Token{PLUS_EQ, CARET, SHR, EQ_EQ, BANG_EQ, ARROW}, kinds)
}

func TestScanLineComment(t *testing.T) {
	toks := scanAll(t, "1 // comment\n2")
	require.Len(t, toks, 3)
	assert.Equal(t, int64(1), toks[0].IntValue)
	assert.Equal(t, int64(2), toks[1].IntValue)
}

func TestIllegalCharacterReportsDiagnostic(t *testing.T) {
	diags := diagnostic.NewList(nil)
	sc := New(1, []byte("@"), diags)
	l := sc.Next()
	assert.Equal(t, ILLEGAL, l.Token)
	assert.Equal(t, 1, diags.Len())
}
