// Package parser implements the schema DSL's hand-written recursive-descent
// parser (component B): tokens in, an ast.Program (pre-resolution) plus any
// syntax errors out.
package parser

import (
	"fmt"
	"strings"

	"github.com/kcmvp/repack/apperr"
	"github.com/kcmvp/repack/schema/ast"
	"github.com/kcmvp/repack/schema/lexer"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Parse tokenizes and parses a full schema source, returning the partially
// (pre-resolution) built Program plus any syntax errors encountered. Parsing
// recovers from an unexpected token by advancing to the next top-level
// keyword, so multiple errors can surface from one pass.
func Parse(src string) (*ast.Program, apperr.List) {
	tokens := lexer.Lex(src)
	p := &parserState{c: newCursor(tokens), program: &ast.Program{}}
	p.run()
	return p.program, apperr.List(p.errors)
}

type parserState struct {
	c          *cursor
	program    *ast.Program
	errors     []apperr.Error
	objectSeq  int
	enumSeq    int
}

func (p *parserState) fail(kind apperr.Kind, details string) {
	p.errors = append(p.errors, apperr.New(kind, details))
}

// run dispatches top-level productions until the token stream is exhausted.
func (p *parserState) run() {
	for {
		p.c.skipNewlines()
		t := p.c.peek()
		if t == nil {
			return
		}
		switch t.Kind {
		case lexer.KwRecord, lexer.KwSynthetic:
			p.c.skip()
			obj := p.parseObject(ast.Record)
			obj = obj.WithOrder(p.objectSeq)
			p.objectSeq++
			p.program.Objects = append(p.program.Objects, obj)
		case lexer.KwStruct:
			p.c.skip()
			obj := p.parseObject(ast.Struct)
			obj = obj.WithOrder(p.objectSeq)
			p.objectSeq++
			p.program.Objects = append(p.program.Objects, obj)
		case lexer.KwEnum:
			p.c.skip()
			e := p.parseEnum()
			e = e.WithOrder(p.enumSeq)
			p.enumSeq++
			p.program.Enums = append(p.program.Enums, e)
		case lexer.KwOutput:
			p.c.skip()
			out := p.parseOutput()
			p.program.Outputs = append(p.program.Outputs, out)
		case lexer.KwSnippet:
			p.c.skip()
			snip := p.parseSnippet()
			p.program.Snippets = append(p.program.Snippets, snip)
		case lexer.KwConfiguration:
			p.c.skip()
			cfg := p.parseKeyValBlock()
			p.program.Configurations = append(p.program.Configurations, ast.Configuration{
				Name: cfg.name, Entries: cfg.entries,
			})
		case lexer.KwInstance:
			p.c.skip()
			inst := p.parseInstance()
			p.program.Instances = append(p.program.Instances, inst)
		case lexer.KwImport:
			p.c.skip()
			if lit := p.c.take(); lit != nil && lit.Kind == lexer.Literal {
				p.program.Imports = append(p.program.Imports, ast.Import{Path: lit.Text})
			}
		case lexer.KwBlueprint, lexer.KwConversion:
			// Peripheral statements, parsed for completeness only: consume to
			// end of line/statement and discard.
			p.c.skip()
			p.skipToNewline()
		default:
			p.fail(apperr.SyntaxError, fmt.Sprintf("line %d: unexpected token", t.Line))
			p.recoverToTopLevel()
		}
	}
}

// recoverToTopLevel advances until a top-level keyword (or EOF), so one bad
// statement does not prevent the rest of the file from being parsed.
func (p *parserState) recoverToTopLevel() {
	for {
		t := p.c.peek()
		if t == nil {
			return
		}
		switch t.Kind {
		case lexer.KwRecord, lexer.KwSynthetic, lexer.KwStruct, lexer.KwEnum,
			lexer.KwOutput, lexer.KwSnippet, lexer.KwConfiguration, lexer.KwInstance,
			lexer.KwImport, lexer.KwBlueprint, lexer.KwConversion:
			return
		}
		p.c.skip()
	}
}

func (p *parserState) skipToNewline() {
	for {
		t := p.c.peek()
		if t == nil || t.Kind == lexer.NewLine {
			return
		}
		p.c.skip()
	}
}

// parseObject parses the shared record/struct body: `NAME [@TABLE] [:PARENT]
// [#CAT]* "{" body "}"`.
func (p *parserState) parseObject(typ ast.ObjectType) ast.Object {
	obj := ast.Object{Type: typ}
	if name := p.c.take(); name != nil && name.Kind == lexer.Literal {
		obj.Name = name.Text
	} else {
		p.fail(apperr.SyntaxError, "expected object name")
	}

header:
	for {
		t := p.c.take()
		if t == nil {
			return obj
		}
		switch t.Kind {
		case lexer.At:
			if lit := p.c.peek(); lit != nil && lit.Kind == lexer.Literal {
				p.c.skip()
				obj.TableName = mo.Some(lit.Text)
			}
		case lexer.Colon:
			if lit := p.c.peek(); lit != nil && lit.Kind == lexer.Literal {
				p.c.skip()
				obj.Inherits = mo.Some(lit.Text)
			}
		case lexer.Pound:
			if lit := p.c.peek(); lit != nil && lit.Kind == lexer.Literal {
				p.c.skip()
				obj.Categories = append(obj.Categories, lit.Text)
			}
		case lexer.OpenBrace:
			break header
		case lexer.NewLine:
			// header may span lines before the opening brace
		default:
			// tolerate stray tokens in the header
		}
	}

	fieldSeq := 0
cmd:
	for {
		p.c.skipNewlines()
		t := p.c.take()
		if t == nil {
			p.fail(apperr.SyntaxError, fmt.Sprintf("object %q: unterminated body", obj.Name))
			break cmd
		}
		switch t.Kind {
		case lexer.CloseBrace:
			break cmd
		case lexer.Star:
			obj.ReuseAll = true
		case lexer.Minus:
			if lit := p.c.take(); lit != nil && lit.Kind == lexer.Literal {
				obj.ReuseExclude = append(obj.ReuseExclude, lit.Text)
			}
		case lexer.Exclamation:
			if lit := p.c.take(); lit != nil && lit.Kind == lexer.Literal {
				obj.UseSnippets = append(obj.UseSnippets, lit.Text)
			}
		case lexer.Plus:
			field := p.parseInlineField()
			field = field.WithOrder(fieldSeq)
			fieldSeq++
			obj.Fields = append(obj.Fields, field)
		case lexer.Ampersand:
			p.parseJoinShorthand(&obj)
		case lexer.Literal:
			switch t.Text {
			case "join":
				p.parseJoinKeyword(&obj)
			case "query":
				p.parseQuery(&obj)
			default:
				if p.c.peek() != nil && p.c.peek().Kind == lexer.Colon {
					// Object-level function: NS:FUNC(args).
					p.c.skip()
					if fn := p.parseFunctionTail(t.Text); fn != nil {
						obj.Functions = append(obj.Functions, *fn)
					}
				} else {
					field := p.parseField(t.Text)
					field = field.WithOrder(fieldSeq)
					fieldSeq++
					obj.Fields = append(obj.Fields, field)
				}
			}
		default:
			// ignore stray punctuation inside a body
		}
	}
	return obj
}

// parseField parses a field definition after its name has been consumed:
// `TYPE ("[" "]")? ("?")? (ns_fun)* NL`.
func (p *parserState) parseField(name string) ast.Field {
	field := ast.Field{Name: name, Location: ast.FieldLocation{Reference: ast.Local, ObjectOrJoinName: "", TargetField: name}}

	typeTok := p.c.take()
	if typeTok == nil {
		p.fail(apperr.SyntaxError, fmt.Sprintf("field %q: missing type", name))
		return field
	}
	switch typeTok.Kind {
	case lexer.Literal:
		field.FieldTypeString = typeTok.Text
		if core, ok := ast.CoreTypeFromString(typeTok.Text).Get(); ok {
			field.FieldType = mo.Some(ast.CoreFieldType(core))
		}
		field.Location = ast.FieldLocation{Reference: ast.Local, TargetField: name}
	case lexer.KwFrom:
		p.expect(lexer.OpenParen)
		joinField := p.takeLiteral()
		p.expect(lexer.Period)
		targetField := p.takeLiteral()
		p.expect(lexer.CloseParen)
		field.Location = ast.FieldLocation{Reference: ast.RefImplicitJoin, ObjectOrJoinName: joinField, TargetField: targetField}
	case lexer.KwRef:
		p.expect(lexer.OpenParen)
		entity := p.takeLiteral()
		p.expect(lexer.Period)
		targetField := p.takeLiteral()
		p.expect(lexer.CloseParen)
		field.Location = ast.FieldLocation{Reference: ast.RefFieldType, ObjectOrJoinName: entity, TargetField: targetField}
	case lexer.KwWith:
		p.expect(lexer.OpenParen)
		joinName := p.takeLiteral()
		p.expect(lexer.Period)
		targetField := p.takeLiteral()
		p.expect(lexer.CloseParen)
		field.Location = ast.FieldLocation{Reference: ast.RefExplicitJoin, ObjectOrJoinName: joinName, TargetField: targetField}
	default:
		p.fail(apperr.SyntaxError, fmt.Sprintf("field %q: unexpected type token", name))
		return field
	}

	if t := p.c.peek(); t != nil && t.Kind == lexer.OpenBracket {
		p.c.skip()
		if t2 := p.c.peek(); t2 != nil && t2.Kind == lexer.CloseBracket {
			p.c.skip()
			field.Array = true
		}
	}
	if t := p.c.peek(); t != nil && t.Kind == lexer.Question {
		p.c.skip()
		field.Optional = true
	}

	for {
		t := p.c.take()
		if t == nil || t.Kind == lexer.NewLine {
			break
		}
		if t.Kind == lexer.Literal && p.c.peek() != nil && p.c.peek().Kind == lexer.Colon {
			p.c.skip()
			if fn := p.parseFunctionTail(t.Text); fn != nil {
				field.Functions = append(field.Functions, *fn)
			}
		}
	}
	return field
}

// parseFunctionTail parses the `:NAME("(" ARG ("," ARG)* ")")?` suffix of a
// `NS:FUNC(args)` declaration, given the already-consumed namespace literal
// and the Colon that must come next.
func (p *parserState) parseFunctionTail(namespace string) *ast.FieldFunction {
	nameTok := p.c.take()
	if nameTok == nil || nameTok.Kind != lexer.Literal {
		return nil
	}
	fn := ast.FieldFunction{Namespace: namespace, Name: nameTok.Text}
	if t := p.c.peek(); t != nil && t.Kind == lexer.OpenParen {
		p.c.skip()
		var buf strings.Builder
		for {
			tok := p.c.take()
			if tok == nil {
				break
			}
			switch tok.Kind {
			case lexer.Comma:
				fn.Args = append(fn.Args, strings.TrimSpace(buf.String()))
				buf.Reset()
			case lexer.CloseParen:
				fn.Args = append(fn.Args, strings.TrimSpace(buf.String()))
				return &fn
			case lexer.Literal:
				buf.WriteString(tok.Text)
			default:
				// punctuation inside an argument (rare) is dropped
			}
		}
	}
	return &fn
}

// parseInlineField parses a `+ OBJECT.FIELD [as ALIAS]` inline projection.
func (p *parserState) parseInlineField() ast.Field {
	object := p.takeLiteral()
	p.expect(lexer.Period)
	fieldName := p.takeLiteral()
	name := fieldName
	if t := p.c.peek(); t != nil && t.Kind == lexer.KwAs {
		p.c.skip()
		name = p.takeLiteral()
	}
	return ast.Field{
		Name:     name,
		Alias:    lo.Ternary(name != fieldName, name, ""),
		Location: ast.FieldLocation{Reference: ast.RefFieldType, ObjectOrJoinName: object, TargetField: fieldName},
	}
}

// parseJoinShorthand parses `& FOREIGN & NAME where LOCAL = FOREIGN_FIELD`.
func (p *parserState) parseJoinShorthand(obj *ast.Object) {
	foreign := p.takeLiteral()
	p.expect(lexer.Ampersand)
	name := p.takeLiteral()
	p.expect(lexer.KwWhere)
	local := p.takeLiteral()
	p.expect(lexer.Equals)
	foreignField := p.takeLiteral()
	obj.Joins = append(obj.Joins, ast.ObjectJoin{
		Name: name, ForeignEntity: foreign, LocalField: local, ForeignField: foreignField,
	})
}

// parseJoinKeyword parses `join (NAME ENTITY) = "predicate"`.
func (p *parserState) parseJoinKeyword(obj *ast.Object) {
	p.expect(lexer.OpenParen)
	name := p.takeLiteral()
	entity := p.takeLiteral()
	p.expect(lexer.CloseParen)
	p.expect(lexer.Equals)
	condition := p.takeLiteral()
	obj.Joins = append(obj.Joins, ast.ObjectJoin{
		Name: name, ForeignEntity: entity, Condition: condition,
	})
}

// parseQuery parses `query NAME("(" (NAME ":" NAME)* ")")? = "body" (: one|many)?`.
func (p *parserState) parseQuery(obj *ast.Object) {
	q := ast.Query{Name: p.takeLiteral()}
	if t := p.c.peek(); t != nil && t.Kind == lexer.OpenParen {
		p.c.skip()
		for {
			t := p.c.peek()
			if t == nil || t.Kind == lexer.CloseParen {
				p.c.skip()
				break
			}
			if t.Kind == lexer.Comma {
				p.c.skip()
				continue
			}
			argName := p.takeLiteral()
			p.expect(lexer.Colon)
			argType := p.takeLiteral()
			q.Args = append(q.Args, ast.QueryArg{Name: argName, Type: argType})
		}
	}
	p.expect(lexer.Equals)
	q.Body = p.takeLiteral()
	q.Returns = inferQueryReturn(q.Body)
	if t := p.c.peek(); t != nil && t.Kind == lexer.Colon {
		p.c.skip()
		switch strings.ToLower(p.takeLiteral()) {
		case "one":
			q.Returns = ast.ReturnOne
		case "many":
			q.Returns = ast.ReturnMany
		}
	}
	obj.Queries = append(obj.Queries, q)
}

// inferQueryReturn supplements the bare grammar: a query whose body starts
// with "select" defaults to Many results absent an explicit marker; mutating
// statements default to None.
func inferQueryReturn(body string) ast.QueryReturn {
	trimmed := strings.ToLower(strings.TrimSpace(body))
	if strings.HasPrefix(trimmed, "select") {
		return ast.ReturnMany
	}
	return ast.ReturnNone
}

func (p *parserState) parseEnum() ast.Enum {
	e := ast.Enum{Name: p.takeLiteral()}
	for {
		t := p.c.take()
		if t == nil {
			return e
		}
		if t.Kind == lexer.Pound {
			if lit := p.c.take(); lit != nil && lit.Kind == lexer.Literal {
				e.Categories = append(e.Categories, lit.Text)
			}
			continue
		}
		if t.Kind == lexer.OpenBrace {
			break
		}
	}
	for {
		p.c.skipNewlines()
		t := p.c.peek()
		if t == nil {
			p.fail(apperr.SyntaxError, fmt.Sprintf("enum %q: unterminated body", e.Name))
			return e
		}
		if t.Kind == lexer.CloseBrace {
			p.c.skip()
			return e
		}
		if t.Kind != lexer.Literal {
			p.c.skip()
			continue
		}
		p.c.skip()
		c := ast.EnumCase{Name: t.Text}
		if v := p.c.peek(); v != nil && v.Kind == lexer.Literal {
			p.c.skip()
			c.Value = mo.Some(v.Text)
		}
		e.Options = append(e.Options, c)
	}
}

// parseOutput parses `output PROFILE [@LOCATION] [#CAT]* (";" | "{" (KEY VAL)* "}")`.
func (p *parserState) parseOutput() ast.Output {
	out := ast.Output{Profile: p.takeLiteral(), Options: map[string]string{}}
	for {
		t := p.c.take()
		if t == nil {
			return out
		}
		switch t.Kind {
		case lexer.At:
			if lit := p.c.take(); lit != nil && lit.Kind == lexer.Literal {
				out.Location = mo.Some(lit.Text)
			}
		case lexer.Pound:
			if lit := p.c.take(); lit != nil && lit.Kind == lexer.Literal {
				out.Categories = append(out.Categories, lit.Text)
			}
		case lexer.Semicolon:
			return out
		case lexer.OpenBrace:
			p.parseOutputOptions(&out)
			return out
		case lexer.NewLine:
			// allow the header to span lines
		default:
			// tolerate stray tokens
		}
	}
}

func (p *parserState) parseOutputOptions(out *ast.Output) {
	for {
		p.c.skipNewlines()
		t := p.c.peek()
		if t == nil {
			return
		}
		if t.Kind == lexer.CloseBrace {
			p.c.skip()
			return
		}
		if t.Kind != lexer.Literal {
			p.c.skip()
			continue
		}
		p.c.skip()
		key := t.Text
		if key == "exclude" {
			// exclude takes one-or-more bare names on the rest of the line
			for {
				v := p.c.peek()
				if v == nil || v.Kind == lexer.NewLine {
					break
				}
				if v.Kind == lexer.Literal {
					out.Exclude = append(out.Exclude, v.Text)
				}
				p.c.skip()
			}
			continue
		}
		if v := p.c.peek(); v != nil && v.Kind == lexer.Literal {
			p.c.skip()
			out.Options[key] = v.Text
		}
	}
}

func (p *parserState) parseSnippet() ast.Snippet {
	snip := ast.Snippet{Name: p.takeLiteral()}
	for {
		t := p.c.take()
		if t == nil {
			return snip
		}
		if t.Kind == lexer.OpenBrace {
			break
		}
	}
	seq := 0
	for {
		p.c.skipNewlines()
		t := p.c.take()
		if t == nil {
			return snip
		}
		if t.Kind == lexer.CloseBrace {
			return snip
		}
		if t.Kind == lexer.Literal {
			f := p.parseField(t.Text).WithOrder(seq)
			seq++
			snip.Fields = append(snip.Fields, f)
		}
	}
}

type keyValBlock struct {
	name    string
	entries map[string]string
}

func (p *parserState) parseKeyValBlock() keyValBlock {
	block := keyValBlock{name: p.takeLiteral(), entries: map[string]string{}}
	for {
		t := p.c.take()
		if t == nil {
			return block
		}
		if t.Kind == lexer.OpenBrace {
			break
		}
	}
	for {
		p.c.skipNewlines()
		t := p.c.peek()
		if t == nil {
			return block
		}
		if t.Kind == lexer.CloseBrace {
			p.c.skip()
			return block
		}
		if t.Kind != lexer.Literal {
			p.c.skip()
			continue
		}
		p.c.skip()
		key := t.Text
		if v := p.c.peek(); v != nil && v.Kind == lexer.Literal {
			p.c.skip()
			block.entries[key] = v.Text
		}
	}
}

func (p *parserState) parseInstance() ast.Instance {
	name := p.takeLiteral()
	of := ""
	if t := p.c.peek(); t != nil && t.Kind == lexer.Colon {
		p.c.skip()
		of = p.takeLiteral()
	}
	inst := ast.Instance{Name: name, Of: of, Entries: map[string]string{}}
	for {
		t := p.c.take()
		if t == nil {
			return inst
		}
		if t.Kind == lexer.OpenBrace {
			break
		}
	}
	for {
		p.c.skipNewlines()
		t := p.c.peek()
		if t == nil {
			return inst
		}
		if t.Kind == lexer.CloseBrace {
			p.c.skip()
			return inst
		}
		if t.Kind != lexer.Literal {
			p.c.skip()
			continue
		}
		p.c.skip()
		key := t.Text
		if v := p.c.peek(); v != nil && v.Kind == lexer.Literal {
			p.c.skip()
			inst.Entries[key] = v.Text
		}
	}
}

func (p *parserState) takeLiteral() string {
	t := p.c.take()
	if t == nil || t.Kind != lexer.Literal {
		p.fail(apperr.SyntaxError, fmt.Sprintf("line %d: expected a name", p.c.line()))
		return ""
	}
	return t.Text
}

func (p *parserState) expect(k lexer.Kind) {
	t := p.c.take()
	if t == nil || t.Kind != k {
		p.fail(apperr.SyntaxError, fmt.Sprintf("line %d: unexpected token", p.c.line()))
	}
}
