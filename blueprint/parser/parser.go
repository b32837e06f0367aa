// Package parser builds a blueprint.ast.Node tree from a lexer.Token stream,
// matching nested Open/Close directives (component E).
package parser

import (
	"fmt"

	"github.com/kcmvp/repack/apperr"
	bpast "github.com/kcmvp/repack/blueprint/ast"
	"github.com/kcmvp/repack/blueprint/lexer"
)

// Parse tokenizes and parses a full blueprint source, returning its node
// tree plus any structural errors (unmatched open/close directives).
func Parse(src string) ([]bpast.Node, apperr.List) {
	tokens := lexer.Lex(src)
	p := &state{tokens: tokens}
	nodes := p.parseUntil("")
	if len(p.errs) == 0 && p.pos < len(p.tokens) {
		p.errs = append(p.errs, apperr.New(apperr.ParseIncomplete, "unexpected closing directive"))
	}
	return nodes, p.errs
}

type state struct {
	tokens []lexer.Token
	pos    int
	errs   apperr.List
}

// parseUntil parses nodes until it sees a Close directive matching
// expectedClose (or, at the top level, until the stream is exhausted).
func (p *state) parseUntil(expectedClose string) []bpast.Node {
	var nodes []bpast.Node
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		switch t.Kind {
		case lexer.Literal:
			nodes = append(nodes, bpast.Node{Text: t.Text})
			p.pos++
		case lexer.SelfClosing:
			nodes = append(nodes, bpast.Node{Name: t.Name, Sub: t.Sub, Arg: t.Arg})
			p.pos++
		case lexer.Open:
			p.pos++
			body := p.parseUntil(t.Name)
			nodes = append(nodes, bpast.Node{Name: t.Name, Sub: t.Sub, Arg: t.Arg, Children: body})
		case lexer.Close:
			if expectedClose == "" {
				// A close with no matching open at this level: stop here and
				// let the caller report it.
				return nodes
			}
			if t.Name != expectedClose {
				p.errs = append(p.errs, apperr.New(apperr.ParseIncomplete,
					fmt.Sprintf("line %d: expected </%s>, found </%s>", t.Line, expectedClose, t.Name)))
			}
			p.pos++
			return nodes
		}
	}
	if expectedClose != "" {
		p.errs = append(p.errs, apperr.New(apperr.ParseIncomplete,
			fmt.Sprintf("unterminated <%s>", expectedClose)))
	}
	return nodes
}
