package parser

import (
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/ast"
)

// gmlParser is a recursive-descent parser for the GML subset. Semicolons are
// optional, as in GML; statement boundaries come from the grammar itself.
type gmlParser struct {
	lex *lexer
	tok token
}

func newParser(path string, src []byte) *gmlParser {
	return &gmlParser{lex: newLexer(path, src)}
}

// next advances to the next token.
func (p *gmlParser) next() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *gmlParser) isOp(text string) bool {
	return p.tok.kind == tokOp && p.tok.text == text
}

func (p *gmlParser) isKeyword(name string) bool {
	return p.tok.kind == tokIdent && p.tok.text == name
}

func (p *gmlParser) expectOp(text string) (token, error) {
	if !p.isOp(text) {
		return token{}, p.lex.errorf(p.tok.start, "expected %q, found %q", text, p.tok.text)
	}
	tok := p.tok
	if err := p.next(); err != nil {
		return token{}, err
	}
	return tok, nil
}

func (p *gmlParser) expectIdent() (*ast.Ident, error) {
	if p.tok.kind != tokIdent {
		return nil, p.lex.errorf(p.tok.start, "expected identifier, found %q", p.tok.text)
	}
	id := &ast.Ident{Name: p.tok.text, Where: p.tok.span()}
	if err := p.next(); err != nil {
		return nil, err
	}
	return id, nil
}

func (p *gmlParser) parseFile() (*ast.File, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.tok.kind != tokEOF {
		if p.isOp(";") {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &ast.File{Path: p.lex.path, Stmts: stmts, Comments: p.lex.comments}, nil
}

func (p *gmlParser) parseStmt() (ast.Stmt, error) {
	if p.tok.kind == tokMacro {
		return p.parseMacro()
	}
	if p.tok.kind == tokIdent {
		switch p.tok.text {
		case "var", "static":
			return p.parseVarDecl()
		case "globalvar":
			return p.parseGlobalVar()
		case "enum":
			return p.parseEnum()
		case "function":
			return p.parseFunction()
		case "if":
			return p.parseIf()
		case "while", "repeat", "with":
			return p.parseCondLoop(ast.LoopKind(p.tok.text))
		case "do":
			return p.parseDoUntil()
		case "for":
			return p.parseFor()
		case "switch":
			return p.parseSwitch()
		case "return":
			return p.parseReturn()
		case "break", "continue", "exit":
			s := &ast.BranchStmt{Tok: p.tok.text, Where: p.tok.span()}
			if err := p.next(); err != nil {
				return nil, err
			}
			return s, nil
		}
	}
	if p.isOp("{") {
		return p.parseBlock()
	}
	return p.parseSimpleStmt()
}

// parseSimpleStmt parses an assignment or expression statement.
func (p *gmlParser) parseSimpleStmt() (ast.Stmt, error) {
	start := p.tok.start
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokOp {
		switch p.tok.text {
		case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=", "??=":
			op := p.tok.text
			if err := p.next(); err != nil {
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &ast.AssignStmt{
				Target: expr,
				Op:     op,
				Value:  value,
				Where:  ast.Range{Start: start, End: value.Span().End},
			}, nil
		}
	}
	return &ast.ExprStmt{X: expr}, nil
}

func (p *gmlParser) parseMacro() (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil { // consume #macro, fetch name
		return nil, err
	}
	name, err := p.expectIdentRaw()
	if err != nil {
		return nil, err
	}
	// The replacement text runs to end of line and must be read before the
	// next token is fetched.
	value := p.lex.restOfLine()
	end := p.lex.pos()
	if err := p.next(); err != nil {
		return nil, err
	}
	return &ast.MacroDecl{
		Name:  name,
		Value: value,
		Where: ast.Range{Start: start, End: end},
	}, nil
}

// expectIdentRaw reads the current token as an identifier without fetching
// the following token. Only used by parseMacro, which needs raw line access
// immediately after the name.
func (p *gmlParser) expectIdentRaw() (*ast.Ident, error) {
	if p.tok.kind != tokIdent {
		return nil, p.lex.errorf(p.tok.start, "expected identifier, found %q", p.tok.text)
	}
	return &ast.Ident{Name: p.tok.text, Where: p.tok.span()}, nil
}

func (p *gmlParser) parseVarDecl() (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil { // consume var/static
		return nil, err
	}
	decl := &ast.VarDecl{}
	end := start
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		decl.Names = append(decl.Names, name)
		end = name.Where.End
		var value ast.Expr
		if p.isOp("=") {
			if err := p.next(); err != nil {
				return nil, err
			}
			value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
			end = value.Span().End
		}
		decl.Values = append(decl.Values, value)
		if !p.isOp(",") {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	decl.Where = ast.Range{Start: start, End: end}
	return decl, nil
}

func (p *gmlParser) parseGlobalVar() (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil {
		return nil, err
	}
	decl := &ast.GlobalVarDecl{}
	end := start
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		decl.Names = append(decl.Names, name)
		end = name.Where.End
		if !p.isOp(",") {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	decl.Where = ast.Range{Start: start, End: end}
	return decl, nil
}

func (p *gmlParser) parseEnum() (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOp("{"); err != nil {
		return nil, err
	}
	decl := &ast.EnumDecl{Name: name}
	for !p.isOp("}") {
		member, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		em := ast.EnumMember{Name: member}
		if p.isOp("=") {
			if err := p.next(); err != nil {
				return nil, err
			}
			em.Value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		decl.Members = append(decl.Members, em)
		if p.isOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	close, err := p.expectOp("}")
	if err != nil {
		return nil, err
	}
	decl.Where = ast.Range{Start: start, End: close.end}
	return decl, nil
}

// parseFunction parses a named function declaration. An anonymous function in
// statement position falls through to expression parsing.
func (p *gmlParser) parseFunction() (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.isOp("(") {
		// Anonymous function literal used as an expression statement.
		lit, err := p.parseFuncRest(start)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{X: lit}, nil
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	lit, err := p.parseFuncRest(start)
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{
		Name:        name,
		Params:      lit.Params,
		Body:        lit.Body,
		Constructor: lit.Constructor,
		Where:       ast.Range{Start: start, End: lit.Where.End},
	}, nil
}

// parseFuncRest parses "(params) [: Parent(args)] [constructor] { body }".
// A parent constructor call is kept as the first body statement so its
// identifier occurrences are indexed with correct ranges.
func (p *gmlParser) parseFuncRest(start ast.Position) (*ast.FuncLit, error) {
	if _, err := p.expectOp("("); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.isOp(")") {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		param := ast.Param{Name: name}
		if p.isOp("=") {
			if err := p.next(); err != nil {
				return nil, err
			}
			param.Default, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, param)
		if p.isOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.next(); err != nil { // consume ")"
		return nil, err
	}

	var parentCall ast.Expr
	if p.isOp(":") {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		parentCall, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	constructor := false
	if p.isKeyword("constructor") {
		constructor = true
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if parentCall != nil {
		body.Stmts = append([]ast.Stmt{&ast.ExprStmt{X: parentCall}}, body.Stmts...)
	}
	return &ast.FuncLit{
		Params:      params,
		Body:        body,
		Constructor: constructor,
		Where:       ast.Range{Start: start, End: body.Where.End},
	}, nil
}

func (p *gmlParser) parseBlock() (*ast.Block, error) {
	open, err := p.expectOp("{")
	if err != nil {
		return nil, err
	}
	block := &ast.Block{}
	for !p.isOp("}") {
		if p.tok.kind == tokEOF {
			return nil, p.lex.errorf(open.start, "unclosed block")
		}
		if p.isOp(";") {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	close, err := p.expectOp("}")
	if err != nil {
		return nil, err
	}
	block.Where = ast.Range{Start: open.start, End: close.end}
	return block, nil
}

// parseBody parses a statement body: either a braced block or a single
// statement, which is wrapped in a Block for uniformity.
func (p *gmlParser) parseBody() (*ast.Block, error) {
	if p.isOp("{") {
		return p.parseBlock()
	}
	stmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: []ast.Stmt{stmt}, Where: stmt.Span()}, nil
}

func (p *gmlParser) parseIf() (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Then: then}
	end := then.Where.End
	if p.isKeyword("else") {
		if err := p.next(); err != nil {
			return nil, err
		}
		var elseStmt ast.Stmt
		if p.isKeyword("if") {
			elseStmt, err = p.parseIf()
		} else {
			elseStmt, err = p.parseBody()
		}
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmt
		end = elseStmt.Span().End
	}
	stmt.Where = ast.Range{Start: start, End: end}
	return stmt, nil
}

func (p *gmlParser) parseCondLoop(kind ast.LoopKind) (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.LoopStmt{
		Kind:  kind,
		Cond:  cond,
		Body:  body,
		Where: ast.Range{Start: start, End: body.Where.End},
	}, nil
}

func (p *gmlParser) parseDoUntil() (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("until") {
		return nil, p.lex.errorf(p.tok.start, "expected \"until\", found %q", p.tok.text)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.LoopStmt{
		Kind:  ast.LoopDo,
		Cond:  cond,
		Body:  body,
		Where: ast.Range{Start: start, End: cond.Span().End},
	}, nil
}

func (p *gmlParser) parseFor() (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil {
		return nil, err
	}
	if _, err := p.expectOp("("); err != nil {
		return nil, err
	}
	var init, post ast.Stmt
	var cond ast.Expr
	var err error
	if !p.isOp(";") {
		init, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectOp(";"); err != nil {
		return nil, err
	}
	if !p.isOp(";") {
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectOp(";"); err != nil {
		return nil, err
	}
	if !p.isOp(")") {
		post, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectOp(")"); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.LoopStmt{
		Kind:  ast.LoopFor,
		Init:  init,
		Cond:  cond,
		Post:  post,
		Body:  body,
		Where: ast.Range{Start: start, End: body.Where.End},
	}, nil
}

func (p *gmlParser) parseSwitch() (ast.Stmt, error) {
	start := p.tok.start
	if err := p.next(); err != nil {
		return nil, err
	}
	tag, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOp("{"); err != nil {
		return nil, err
	}
	stmt := &ast.SwitchStmt{Tag: tag}
	for !p.isOp("}") {
		if p.tok.kind == tokEOF {
			return nil, p.lex.errorf(start, "unclosed switch")
		}
		var clause ast.CaseClause
		switch {
		case p.isKeyword("case"):
			if err := p.next(); err != nil {
				return nil, err
			}
			clause.Value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		case p.isKeyword("default"):
			if err := p.next(); err != nil {
				return nil, err
			}
		default:
			return nil, p.lex.errorf(p.tok.start, "expected \"case\" or \"default\", found %q", p.tok.text)
		}
		if _, err := p.expectOp(":"); err != nil {
			return nil, err
		}
		for !p.isKeyword("case") && !p.isKeyword("default") && !p.isOp("}") {
			if p.isOp(";") {
				if err := p.next(); err != nil {
					return nil, err
				}
				continue
			}
			s, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			clause.Body = append(clause.Body, s)
		}
		stmt.Cases = append(stmt.Cases, clause)
	}
	close, err := p.expectOp("}")
	if err != nil {
		return nil, err
	}
	stmt.Where = ast.Range{Start: start, End: close.end}
	return stmt, nil
}

// returnEnders are tokens that cannot start a return expression, so a return
// followed by one of them is a bare return.
func (p *gmlParser) returnHasValue() bool {
	if p.tok.kind == tokEOF {
		return false
	}
	if p.tok.kind == tokOp {
		switch p.tok.text {
		case ";", "}", ")":
			return false
		}
	}
	if p.tok.kind == tokIdent {
		switch p.tok.text {
		case "case", "default", "var", "if", "while", "for", "return", "break", "continue", "exit":
			return false
		}
	}
	return true
}

func (p *gmlParser) parseReturn() (ast.Stmt, error) {
	start := p.tok.start
	end := p.tok.end
	if err := p.next(); err != nil {
		return nil, err
	}
	stmt := &ast.ReturnStmt{}
	if p.returnHasValue() {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
		end = value.Span().End
	}
	stmt.Where = ast.Range{Start: start, End: end}
	return stmt, nil
}
