package lexer_test

import (
	"testing"

	"github.com/kcmvp/repack/schema/lexer"
	"github.com/stretchr/testify/require"
)

func TestLexKeywordsAndPunctuation(t *testing.T) {
	tokens := lexer.Lex(`record User @users {`)
	kinds := make([]lexer.Kind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []lexer.Kind{
		lexer.KwRecord, lexer.Literal, lexer.At, lexer.Literal, lexer.OpenBrace,
	}, kinds)
}

func TestLexQuotedLiteralSpansNewlines(t *testing.T) {
	tokens := lexer.Lex("\"line one\nline two\" = next")
	require.Equal(t, lexer.Literal, tokens[0].Kind)
	require.Equal(t, "line one\nline two", tokens[0].Text)
	require.Equal(t, 1, tokens[0].Line)
	// The token after the closing quote should be on line 2.
	require.Equal(t, lexer.Equals, tokens[1].Kind)
	require.Equal(t, 2, tokens[1].Line)
}

func TestLexFieldLine(t *testing.T) {
	tokens := lexer.Lex("id int64 db:primary_key\n")
	require.Equal(t, lexer.Literal, tokens[0].Kind)
	require.Equal(t, "id", tokens[0].Text)
	require.Equal(t, lexer.Literal, tokens[1].Kind)
	require.Equal(t, "int64", tokens[1].Text)
	require.Equal(t, lexer.Literal, tokens[2].Kind)
	require.Equal(t, "db", tokens[2].Text)
	require.Equal(t, lexer.Colon, tokens[3].Kind)
	require.Equal(t, lexer.Literal, tokens[4].Kind)
	require.Equal(t, "primary_key", tokens[4].Text)
	require.Equal(t, lexer.NewLine, tokens[5].Kind)
}

func TestLexRefKeyword(t *testing.T) {
	tokens := lexer.Lex(`owner ref(User.id)`)
	require.Equal(t, lexer.KwRef, tokens[1].Kind)
}
