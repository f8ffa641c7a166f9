package parser

import (
	"fmt"
	"strings"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/gml/ast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp
	tokMacro // the "#macro" directive token itself
)

type token struct {
	kind  tokenKind
	text  string
	start ast.Position
	end   ast.Position
}

func (t token) span() ast.Range { return ast.Range{Start: t.start, End: t.end} }

// lexer produces tokens from GML source. Comments are collected rather than
// emitted; other preprocessor-style directives (#region, #endregion) are
// treated as comments.
type lexer struct {
	path     string
	src      []byte
	off      int
	line     int
	col      int
	comments []ast.Comment
}

func newLexer(path string, src []byte) *lexer {
	return &lexer{path: path, src: src, line: 1, col: 1}
}

func (l *lexer) pos() ast.Position {
	return ast.Position{Offset: l.off, Line: l.line, Col: l.col}
}

func (l *lexer) errorf(at ast.Position, format string, args ...any) error {
	return fmt.Errorf("%s:%d:%d: %s", l.path, at.Line, at.Col, fmt.Sprintf(format, args...))
}

func (l *lexer) peekByte() byte {
	if l.off >= len(l.src) {
		return 0
	}
	return l.src[l.off]
}

func (l *lexer) peekByteAt(n int) byte {
	if l.off+n >= len(l.src) {
		return 0
	}
	return l.src[l.off+n]
}

func (l *lexer) advance() {
	if l.off >= len(l.src) {
		return
	}
	if l.src[l.off] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.off++
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// multi-byte operators, longest first so the scan below is greedy. The "[x"
// entries are the GML data-structure accessors (list, map, grid, array,
// struct).
var multiOps = []string{
	"<<=", ">>=", "??=",
	"==", "!=", "<=", ">=", "&&", "||", "^^", "<<", ">>",
	"++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "??",
	"[|", "[?", "[#", "[@", "[$",
}

// next returns the next token, skipping whitespace, comments, and region
// directives.
func (l *lexer) next() (token, error) {
	for {
		c := l.peekByte()
		switch {
		case c == 0:
			p := l.pos()
			return token{kind: tokEOF, start: p, end: p}, nil

		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()

		case c == '/' && l.peekByteAt(1) == '/':
			l.lineComment()

		case c == '/' && l.peekByteAt(1) == '*':
			if err := l.blockComment(); err != nil {
				return token{}, err
			}

		case c == '#' && isIdentByte(l.peekByteAt(1)):
			tok, handled, err := l.directive()
			if err != nil {
				return token{}, err
			}
			if handled {
				return tok, nil
			}
			// #region and friends are consumed as comments; loop for more.

		case isIdentStart(c):
			return l.identToken(), nil

		case isDigit(c) || (c == '.' && isDigit(l.peekByteAt(1))) || (c == '$' && isHexByte(l.peekByteAt(1))):
			return l.numberToken(), nil

		case c == '"' || (c == '@' && (l.peekByteAt(1) == '"' || l.peekByteAt(1) == '\'')):
			return l.stringToken()

		default:
			return l.opToken()
		}
	}
}

func (l *lexer) lineComment() {
	start := l.pos()
	var sb strings.Builder
	for l.peekByte() != 0 && l.peekByte() != '\n' {
		sb.WriteByte(l.peekByte())
		l.advance()
	}
	l.comments = append(l.comments, ast.Comment{
		Text:  sb.String(),
		Where: ast.Range{Start: start, End: l.pos()},
	})
}

func (l *lexer) blockComment() error {
	start := l.pos()
	var sb strings.Builder
	l.advance() // '/'
	l.advance() // '*'
	sb.WriteString("/*")
	for {
		c := l.peekByte()
		if c == 0 {
			return l.errorf(start, "unterminated block comment")
		}
		if c == '*' && l.peekByteAt(1) == '/' {
			l.advance()
			l.advance()
			sb.WriteString("*/")
			break
		}
		sb.WriteByte(c)
		l.advance()
	}
	l.comments = append(l.comments, ast.Comment{
		Text:  sb.String(),
		Where: ast.Range{Start: start, End: l.pos()},
	})
	return nil
}

// directive handles '#word' tokens. #macro is returned as a token for the
// parser; #region/#endregion are consumed as comments; any other #word is a
// color literal (#FFAA00) and becomes a number token.
func (l *lexer) directive() (token, bool, error) {
	start := l.pos()
	l.advance() // '#'
	var word strings.Builder
	for isIdentByte(l.peekByte()) {
		word.WriteByte(l.peekByte())
		l.advance()
	}
	name := word.String()
	if name == "macro" {
		return token{kind: tokMacro, text: "#macro", start: start, end: l.pos()}, true, nil
	}
	if name != "region" && name != "endregion" {
		return token{kind: tokNumber, text: "#" + name, start: start, end: l.pos()}, true, nil
	}
	// #region NAME or #endregion: skip to EOL.
	var sb strings.Builder
	sb.WriteString("#" + name)
	for l.peekByte() != 0 && l.peekByte() != '\n' {
		sb.WriteByte(l.peekByte())
		l.advance()
	}
	l.comments = append(l.comments, ast.Comment{
		Text:  sb.String(),
		Where: ast.Range{Start: start, End: l.pos()},
	})
	return token{}, false, nil
}

func (l *lexer) identToken() token {
	start := l.pos()
	var sb strings.Builder
	for isIdentByte(l.peekByte()) {
		sb.WriteByte(l.peekByte())
		l.advance()
	}
	return token{kind: tokIdent, text: sb.String(), start: start, end: l.pos()}
}

func (l *lexer) numberToken() token {
	start := l.pos()
	var sb strings.Builder
	if l.peekByte() == '$' {
		// $FF00AA hex color literal
		sb.WriteByte('$')
		l.advance()
		for isHexByte(l.peekByte()) {
			sb.WriteByte(l.peekByte())
			l.advance()
		}
		return token{kind: tokNumber, text: sb.String(), start: start, end: l.pos()}
	}
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X') {
		sb.WriteString("0x")
		l.advance()
		l.advance()
		for isHexByte(l.peekByte()) {
			sb.WriteByte(l.peekByte())
			l.advance()
		}
		return token{kind: tokNumber, text: sb.String(), start: start, end: l.pos()}
	}
	seenDot := false
	for {
		c := l.peekByte()
		if isDigit(c) || (c == '.' && !seenDot && isDigit(l.peekByteAt(1))) {
			if c == '.' {
				seenDot = true
			}
			sb.WriteByte(c)
			l.advance()
			continue
		}
		break
	}
	return token{kind: tokNumber, text: sb.String(), start: start, end: l.pos()}
}

func isHexByte(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *lexer) stringToken() (token, error) {
	start := l.pos()
	verbatim := false
	if l.peekByte() == '@' {
		verbatim = true
		l.advance()
	}
	quote := l.peekByte()
	l.advance()
	var sb strings.Builder
	for {
		c := l.peekByte()
		if c == 0 {
			return token{}, l.errorf(start, "unterminated string literal")
		}
		if !verbatim && c == '\\' {
			sb.WriteByte(c)
			l.advance()
			if l.peekByte() != 0 {
				sb.WriteByte(l.peekByte())
				l.advance()
			}
			continue
		}
		if c == quote {
			l.advance()
			break
		}
		sb.WriteByte(c)
		l.advance()
	}
	return token{kind: tokString, text: sb.String(), start: start, end: l.pos()}, nil
}

func (l *lexer) opToken() (token, error) {
	start := l.pos()
	rest := l.src[l.off:]
	for _, op := range multiOps {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			for range op {
				l.advance()
			}
			return token{kind: tokOp, text: op, start: start, end: l.pos()}, nil
		}
	}
	c := l.peekByte()
	switch c {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&', '|', '^', '~',
		'(', ')', '{', '}', '[', ']', ',', ';', ':', '.', '?', '@', '$':
		l.advance()
		return token{kind: tokOp, text: string(c), start: start, end: l.pos()}, nil
	}
	return token{}, l.errorf(start, "unexpected character %q", string(c))
}

// restOfLine consumes and returns the raw text up to (not including) the next
// unescaped newline. Used for #macro replacement text, which may continue
// across lines with a trailing backslash.
func (l *lexer) restOfLine() string {
	var sb strings.Builder
	for {
		c := l.peekByte()
		if c == 0 {
			break
		}
		if c == '\\' && l.peekByteAt(1) == '\n' {
			l.advance()
			l.advance()
			sb.WriteByte('\n')
			continue
		}
		if c == '\n' {
			break
		}
		sb.WriteByte(c)
		l.advance()
	}
	return strings.TrimSpace(sb.String())
}
