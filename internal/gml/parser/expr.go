package parser

import (
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/ast"
)

// binaryLevels lists binary operators from lowest to highest precedence.
// Word operators (and/or/xor/div/mod) are the legacy GML spellings.
var binaryLevels = [][]string{
	{"??"},
	{"||", "or"},
	{"&&", "and"},
	{"^^", "xor"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%", "div", "mod"},
}

func (p *gmlParser) matchesLevel(level []string) (string, bool) {
	for _, op := range level {
		if p.tok.kind == tokOp && p.tok.text == op {
			return op, true
		}
		// Word operators arrive as identifier tokens.
		if p.tok.kind == tokIdent && p.tok.text == op {
			return op, true
		}
	}
	return "", false
}

// parseExpr parses a full expression, including the ternary form.
func (p *gmlParser) parseExpr() (ast.Expr, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.isOp("?") {
		return cond, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOp(":"); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpr{Cond: cond, Then: then, Else: elseExpr}, nil
}

func (p *gmlParser) parseBinary(level int) (ast.Expr, error) {
	if level >= len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchesLevel(binaryLevels[level])
		if !ok {
			return left, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{X: left, Op: op, Y: right}
	}
}

func (p *gmlParser) parseUnary() (ast.Expr, error) {
	start := p.tok.start
	if p.tok.kind == tokOp {
		switch p.tok.text {
		case "-", "+", "!", "~", "++", "--":
			op := p.tok.text
			if err := p.next(); err != nil {
				return nil, err
			}
			x, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.UnaryExpr{Op: op, X: x, Where: ast.Range{Start: start, End: x.Span().End}}, nil
		}
	}
	if p.tok.kind == tokIdent && (p.tok.text == "not" || p.tok.text == "new" || p.tok.text == "delete") {
		op := p.tok.text
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, X: x, Where: ast.Range{Start: start, End: x.Span().End}}, nil
	}
	return p.parsePostfix()
}

// accessorOps are the data-structure accessor forms of "[" (x[| i] for
// lists, x[? k] for maps, x[# i, j] for grids, x[@ i] for direct array
// access, x[$ k] for structs).
var accessorOps = map[string]bool{"[|": true, "[?": true, "[#": true, "[@": true, "[$": true}

func (p *gmlParser) isIndexOpen() bool {
	return p.tok.kind == tokOp && (p.tok.text == "[" || accessorOps[p.tok.text])
}

func (p *gmlParser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("."):
			if err := p.next(); err != nil {
				return nil, err
			}
			sel, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			x = &ast.SelectorExpr{X: x, Sel: sel}

		case p.isOp("("):
			call, err := p.parseCallArgs(x)
			if err != nil {
				return nil, err
			}
			x = call

		case p.isIndexOpen():
			idx, err := p.parseIndex(x)
			if err != nil {
				return nil, err
			}
			x = idx

		case p.isOp("++") || p.isOp("--"):
			op := p.tok.text
			end := p.tok.end
			if err := p.next(); err != nil {
				return nil, err
			}
			x = &ast.UnaryExpr{Op: op, X: x, Where: ast.Range{Start: x.Span().Start, End: end}}

		default:
			return x, nil
		}
	}
}

func (p *gmlParser) parseCallArgs(fun ast.Expr) (ast.Expr, error) {
	if err := p.next(); err != nil { // consume "("
		return nil, err
	}
	call := &ast.CallExpr{Fun: fun}
	for !p.isOp(")") {
		if p.tok.kind == tokEOF {
			return nil, p.lex.errorf(fun.Span().Start, "unclosed call")
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.isOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	end := p.tok.end
	if err := p.next(); err != nil { // consume ")"
		return nil, err
	}
	call.Where = ast.Range{Start: fun.Span().Start, End: end}
	return call, nil
}

func (p *gmlParser) parseIndex(x ast.Expr) (ast.Expr, error) {
	if err := p.next(); err != nil { // consume "[" or accessor form
		return nil, err
	}
	idx := &ast.IndexExpr{X: x}
	for !p.isOp("]") {
		if p.tok.kind == tokEOF {
			return nil, p.lex.errorf(x.Span().Start, "unclosed index")
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		idx.Indices = append(idx.Indices, e)
		if p.isOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	end := p.tok.end
	if err := p.next(); err != nil { // consume "]"
		return nil, err
	}
	idx.Where = ast.Range{Start: x.Span().Start, End: end}
	return idx, nil
}

// literalIdents are identifier-shaped tokens that denote values rather than
// bindings. They are never rename targets and never count as references.
var literalIdents = map[string]ast.LiteralKind{
	"true":            ast.LitBool,
	"false":           ast.LitBool,
	"undefined":       ast.LitOther,
	"noone":           ast.LitOther,
	"all":             ast.LitOther,
	"pointer_null":    ast.LitOther,
	"pointer_invalid": ast.LitOther,
}

func (p *gmlParser) parsePrimary() (ast.Expr, error) {
	tok := p.tok
	switch tok.kind {
	case tokIdent:
		if tok.text == "function" {
			start := tok.start
			if err := p.next(); err != nil {
				return nil, err
			}
			return p.parseFuncRest(start)
		}
		if kind, ok := literalIdents[tok.text]; ok {
			if err := p.next(); err != nil {
				return nil, err
			}
			return &ast.Literal{Kind: kind, Value: tok.text, Where: tok.span()}, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.Ident{Name: tok.text, Where: tok.span()}, nil

	case tokNumber:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitNumber, Value: tok.text, Where: tok.span()}, nil

	case tokString:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitString, Value: tok.text, Where: tok.span()}, nil

	case tokOp:
		switch tok.text {
		case "(":
			if err := p.next(); err != nil {
				return nil, err
			}
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expectOp(")")
			if err != nil {
				return nil, err
			}
			return &ast.ParenExpr{X: inner, Where: ast.Range{Start: tok.start, End: end.end}}, nil

		case "[":
			return p.parseArrayLit(tok.start)

		case "{":
			return p.parseStructLit(tok.start)
		}
	}
	return nil, p.lex.errorf(tok.start, "unexpected token %q in expression", tok.text)
}

func (p *gmlParser) parseArrayLit(start ast.Position) (ast.Expr, error) {
	if err := p.next(); err != nil { // consume "["
		return nil, err
	}
	lit := &ast.ArrayLit{}
	for !p.isOp("]") {
		if p.tok.kind == tokEOF {
			return nil, p.lex.errorf(start, "unclosed array literal")
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Elems = append(lit.Elems, e)
		if p.isOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	end := p.tok.end
	if err := p.next(); err != nil {
		return nil, err
	}
	lit.Where = ast.Range{Start: start, End: end}
	return lit, nil
}

func (p *gmlParser) parseStructLit(start ast.Position) (ast.Expr, error) {
	if err := p.next(); err != nil { // consume "{"
		return nil, err
	}
	lit := &ast.StructLit{}
	for !p.isOp("}") {
		if p.tok.kind == tokEOF {
			return nil, p.lex.errorf(start, "unclosed struct literal")
		}
		if p.tok.kind != tokIdent && p.tok.kind != tokString {
			return nil, p.lex.errorf(p.tok.start, "expected struct key, found %q", p.tok.text)
		}
		key := p.tok.text
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.expectOp(":"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Keys = append(lit.Keys, key)
		lit.Values = append(lit.Values, value)
		if p.isOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	end := p.tok.end
	if err := p.next(); err != nil {
		return nil, err
	}
	lit.Where = ast.Range{Start: start, End: end}
	return lit, nil
}
