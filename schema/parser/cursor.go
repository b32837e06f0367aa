package parser

import "github.com/kcmvp/repack/schema/lexer"

// cursor walks a token stream without backtracking, mirroring the original
// FileContents reader: callers `take`/`peek`/`skip` tokens one at a time.
type cursor struct {
	tokens []lexer.Token
	pos    int
}

func newCursor(tokens []lexer.Token) *cursor {
	return &cursor{tokens: tokens}
}

func (c *cursor) peek() *lexer.Token {
	if c.pos >= len(c.tokens) {
		return nil
	}
	return &c.tokens[c.pos]
}

func (c *cursor) take() *lexer.Token {
	t := c.peek()
	if t != nil {
		c.pos++
	}
	return t
}

func (c *cursor) skip() {
	if c.pos < len(c.tokens) {
		c.pos++
	}
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.tokens)
}

// skipNewlines advances past any run of blank lines.
func (c *cursor) skipNewlines() {
	for {
		t := c.peek()
		if t == nil || t.Kind != lexer.NewLine {
			return
		}
		c.skip()
	}
}

// line returns the source line of the current token, or the last token's
// line at end of stream (used for error reporting).
func (c *cursor) line() int {
	if t := c.peek(); t != nil {
		return t.Line
	}
	if len(c.tokens) > 0 {
		return c.tokens[len(c.tokens)-1].Line
	}
	return 0
}
