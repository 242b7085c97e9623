package vcd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectTokens(t *testing.T, lex *Lexer, n int) []Token {
	t.Helper()
	tokens := make([]Token, 0, n)
	for i := 0; i < n; i++ {
		tok, err := lex.Next()
		require.NoError(t, err)
		tokens = append(tokens, tok)
	}
	return tokens
}

func TestLexer_DeclarationTokens(t *testing.T) {
	lex := NewLexer(strings.NewReader("$scope module top $end\n$var wire 1 ! clk $end\n"))

	tokens := collectTokens(t, lex, 10)

	assert.Equal(t, TokenCommandStart, tokens[0].Kind)
	assert.Equal(t, "scope", tokens[0].Text)
	assert.Equal(t, TokenWord, tokens[1].Kind)
	assert.Equal(t, "module", tokens[1].Text)
	assert.Equal(t, TokenWord, tokens[2].Kind)
	assert.Equal(t, "top", tokens[2].Text)
	assert.Equal(t, TokenCommandEnd, tokens[3].Kind)

	assert.Equal(t, TokenCommandStart, tokens[4].Kind)
	assert.Equal(t, "var", tokens[4].Text)
	assert.Equal(t, TokenCommandEnd, tokens[9].Kind)

	// In declaration mode "1" and "!" are plain argument words.
	assert.Equal(t, TokenWord, tokens[6].Kind)
	assert.Equal(t, "1", tokens[6].Text)

	tok, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenEOF, tok.Kind)
}

func TestLexer_LineNumbers(t *testing.T) {
	lex := NewLexer(strings.NewReader("$scope\nmodule\n\ntop\n"))

	tokens := collectTokens(t, lex, 3)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 4, tokens[2].Line)
}

func TestLexer_DumpTokens(t *testing.T) {
	lex := NewLexer(strings.NewReader("#0\n0!\n1!\nx&\nb1010 #\nr3.14 %\n#15\n"))
	lex.EnterDumpMode()

	tok, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenTimeMarker, tok.Kind)
	assert.Equal(t, "0", tok.Text)

	tok, err = lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenScalarChange, tok.Kind)
	assert.Equal(t, "0!", tok.Text)

	tok, err = lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenScalarChange, tok.Kind)
	assert.Equal(t, "1!", tok.Text)

	tok, err = lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenScalarChange, tok.Kind)
	assert.Equal(t, "x&", tok.Text)

	tok, err = lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenVectorChange, tok.Kind)
	assert.Equal(t, "1010", tok.Text)

	// The identifier code after a vector value must not be reclassified,
	// even when it collides with the time-marker sigil.
	tok, err = lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenWord, tok.Kind)
	assert.Equal(t, "#", tok.Text)

	tok, err = lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenRealChange, tok.Kind)
	assert.Equal(t, "3.14", tok.Text)

	tok, err = lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenWord, tok.Kind)
	assert.Equal(t, "%", tok.Text)

	tok, err = lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenTimeMarker, tok.Kind)
	assert.Equal(t, "15", tok.Text)
}

func TestLexer_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad time marker", "#ab"},
		{"empty time marker", "#"},
		{"scalar without code", "1"},
		{"vector without bits", "b"},
		{"unexpected word", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexer(strings.NewReader(tt.input))
			lex.EnterDumpMode()

			_, err := lex.Next()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedSyntax)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, 1, syntaxErr.Line)
		})
	}
}
