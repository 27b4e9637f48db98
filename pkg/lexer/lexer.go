package lexer

import (
	"fmt"
	"strconv"

	"github.com/xplshn/glox/pkg/diag"
	"github.com/xplshn/glox/pkg/token"
)

// Lexer turns one in-memory source buffer into a token stream in a single
// left-to-right pass. A Lexer services exactly one scan of one source text;
// malformed input is handed to the reporter and the scan keeps going, so
// the output is always a complete sequence ending in one EOF token.
type Lexer struct {
	source    []rune
	fileIndex int
	pos       int
	line      int
	column    int
	reporter  diag.Reporter
}

type nopReporter struct{}

func (nopReporter) Report(diag.Diagnostic) {}

func New(source []rune, fileIndex int, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Lexer{
		source: source, fileIndex: fileIndex, line: 1, column: 1, reporter: reporter,
	}
}

// ScanTokens drains the entire input. The returned sequence always ends with
// exactly one EOF token whose lexeme is empty and whose line is the line the
// cursor ended on.
func (l *Lexer) ScanTokens() []token.Token {
	var tokens []token.Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// Next consumes and returns the next token. Unexpected characters and
// unterminated strings are reported and skipped rather than returned.
func (l *Lexer) Next() token.Token {
	for {
		l.skipWhitespace()
		startPos, startCol, startLine := l.pos, l.column, l.line

		if l.isAtEnd() {
			return l.makeToken(token.EOF, nil, startPos, startCol, startLine)
		}

		ch := l.advance()
		switch ch {
		case '(':
			return l.makeToken(token.LParen, nil, startPos, startCol, startLine)
		case ')':
			return l.makeToken(token.RParen, nil, startPos, startCol, startLine)
		case '{':
			return l.makeToken(token.LBrace, nil, startPos, startCol, startLine)
		case '}':
			return l.makeToken(token.RBrace, nil, startPos, startCol, startLine)
		case ',':
			return l.makeToken(token.Comma, nil, startPos, startCol, startLine)
		case '.':
			return l.makeToken(token.Dot, nil, startPos, startCol, startLine)
		case '-':
			return l.makeToken(token.Minus, nil, startPos, startCol, startLine)
		case '+':
			return l.makeToken(token.Plus, nil, startPos, startCol, startLine)
		case ';':
			return l.makeToken(token.Semi, nil, startPos, startCol, startLine)
		case '*':
			return l.makeToken(token.Star, nil, startPos, startCol, startLine)
		case '!':
			return l.matchThen('=', token.Neq, token.Not, startPos, startCol, startLine)
		case '=':
			return l.matchThen('=', token.EqEq, token.Eq, startPos, startCol, startLine)
		case '<':
			return l.matchThen('=', token.Lte, token.Lt, startPos, startCol, startLine)
		case '>':
			return l.matchThen('=', token.Gte, token.Gt, startPos, startCol, startLine)
		case '/':
			if l.match('/') {
				l.lineComment()
				continue
			}
			return l.makeToken(token.Slash, nil, startPos, startCol, startLine)
		case '"':
			if tok, ok := l.stringLiteral(startPos, startCol, startLine); ok {
				return tok
			}
			continue
		}

		if isDigit(ch) {
			return l.numberLiteral(startPos, startCol, startLine)
		}
		if isAlpha(ch) {
			return l.identifierOrKeyword(startPos, startCol, startLine)
		}

		l.reporter.Report(diag.Diagnostic{
			FileIndex: l.fileIndex, Line: startLine, Column: startCol, Len: 1,
			Message: fmt.Sprintf("Unexpected character: '%c'", ch),
		})
	}
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
	return ch
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) makeToken(tokType token.Type, literal any, startPos, startCol, startLine int) token.Token {
	return token.Token{
		Type: tokType, Lexeme: string(l.source[startPos:l.pos]), Literal: literal,
		FileIndex: l.fileIndex, Line: startLine, Column: startCol, Len: l.pos - startPos,
	}
}

func (l *Lexer) matchThen(expected rune, thenType, elseType token.Type, sPos, sCol, sLine int) token.Token {
	if l.match(expected) {
		return l.makeToken(thenType, nil, sPos, sCol, sLine)
	}
	return l.makeToken(elseType, nil, sPos, sCol, sLine)
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) identifierOrKeyword(startPos, startCol, startLine int) token.Token {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	tok := l.makeToken(token.Ident, nil, startPos, startCol, startLine)

	// Keyword matching is exact whole-lexeme: "forest" stays an identifier.
	if tokType, isKeyword := token.KeywordMap[tok.Lexeme]; isKeyword {
		tok.Type = tokType
	}
	return tok
}

func (l *Lexer) numberLiteral(startPos, startCol, startLine int) token.Token {
	for isDigit(l.peek()) {
		l.advance()
	}

	// A '.' is part of the number only when a digit follows it; a trailing
	// dot lexes as a separate DOT token on the next call.
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	lexeme := string(l.source[startPos:l.pos])
	// Only digit runs with at most one interior dot reach ParseFloat, so it
	// cannot fail here.
	val, _ := strconv.ParseFloat(lexeme, 64)
	return l.makeToken(token.Number, val, startPos, startCol, startLine)
}

// stringLiteral scans past the opening quote. Strings may span lines and
// carry no escape syntax; the literal value is the text between the quotes.
// On unterminated input it reports at the line the end was detected and
// produces no token.
func (l *Lexer) stringLiteral(startPos, startCol, startLine int) (token.Token, bool) {
	for !l.isAtEnd() && l.peek() != '"' {
		l.advance()
	}

	if l.isAtEnd() {
		l.reporter.Report(diag.Diagnostic{
			FileIndex: l.fileIndex, Line: l.line, Column: l.column, Len: 1,
			Message: "Unterminated string literal",
		})
		return token.Token{}, false
	}

	l.advance() // closing quote
	value := string(l.source[startPos+1 : l.pos-1])
	return l.makeToken(token.String, value, startPos, startCol, startLine), true
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }
