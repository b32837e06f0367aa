package lexer_test

import (
	"testing"

	"github.com/kcmvp/repack/blueprint/lexer"
	"github.com/stretchr/testify/require"
)

func TestLexLiteralAndVariable(t *testing.T) {
	tokens := lexer.Lex(`hello <object.name/>!`)
	require.Len(t, tokens, 3)
	require.Equal(t, lexer.Literal, tokens[0].Kind)
	require.Equal(t, "hello ", tokens[0].Text)
	require.Equal(t, lexer.SelfClosing, tokens[1].Kind)
	require.Equal(t, "object", tokens[1].Name)
	require.Equal(t, "name", tokens[1].Sub)
	require.Equal(t, lexer.Literal, tokens[2].Kind)
	require.Equal(t, "!", tokens[2].Text)
}

func TestLexOpenCloseSnippet(t *testing.T) {
	tokens := lexer.Lex(`<each.field>body</each>`)
	require.Len(t, tokens, 3)
	require.Equal(t, lexer.Open, tokens[0].Kind)
	require.Equal(t, "each", tokens[0].Name)
	require.Equal(t, "field", tokens[0].Sub)
	require.Equal(t, lexer.Literal, tokens[1].Kind)
	require.Equal(t, "body", tokens[1].Text)
	require.Equal(t, lexer.Close, tokens[2].Kind)
	require.Equal(t, "each", tokens[2].Name)
}

func TestLexSelfClosingWithArg(t *testing.T) {
	tokens := lexer.Lex(`<import "time"/>`)
	require.Len(t, tokens, 1)
	require.Equal(t, lexer.SelfClosing, tokens[0].Kind)
	require.Equal(t, "import", tokens[0].Name)
	require.Equal(t, `"time"`, tokens[0].Arg)
}
