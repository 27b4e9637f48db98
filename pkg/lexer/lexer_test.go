package lexer_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xplshn/glox/pkg/diag"
	"github.com/xplshn/glox/pkg/lexer"
	"github.com/xplshn/glox/pkg/token"
)

// view is the slice of Token fields most tests care about.
type view struct {
	Type    token.Type
	Lexeme  string
	Literal any
	Line    int
}

func scan(t *testing.T, src string) ([]token.Token, *diag.Collector) {
	t.Helper()
	col := &diag.Collector{}
	l := lexer.New([]rune(src), 0, col)
	return l.ScanTokens(), col
}

func views(tokens []token.Token) []view {
	out := make([]view, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, view{tok.Type, tok.Lexeme, tok.Literal, tok.Line})
	}
	return out
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []view
	}{
		{
			name: "number plus number",
			src:  "1+2",
			want: []view{
				{token.Number, "1", float64(1), 1},
				{token.Plus, "+", nil, 1},
				{token.Number, "2", float64(2), 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "trailing dot is not part of the number",
			src:  "12.5.",
			want: []view{
				{token.Number, "12.5", 12.5, 1},
				{token.Dot, ".", nil, 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "fractional number",
			src:  "0.25",
			want: []view{
				{token.Number, "0.25", 0.25, 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "comment produces no tokens",
			src:  "// comment\n123",
			want: []view{
				{token.Number, "123", float64(123), 2},
				{token.EOF, "", nil, 2},
			},
		},
		{
			name: "comment at end of input",
			src:  "1 // trailing",
			want: []view{
				{token.Number, "1", float64(1), 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "greedy two-char operators",
			src:  "!= ! ==",
			want: []view{
				{token.Neq, "!=", nil, 1},
				{token.Not, "!", nil, 1},
				{token.EqEq, "==", nil, 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "comparison operators",
			src:  "< <= > >= = /",
			want: []view{
				{token.Lt, "<", nil, 1},
				{token.Lte, "<=", nil, 1},
				{token.Gt, ">", nil, 1},
				{token.Gte, ">=", nil, 1},
				{token.Eq, "=", nil, 1},
				{token.Slash, "/", nil, 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "punctuation",
			src:  "(){},.-+;*",
			want: []view{
				{token.LParen, "(", nil, 1},
				{token.RParen, ")", nil, 1},
				{token.LBrace, "{", nil, 1},
				{token.RBrace, "}", nil, 1},
				{token.Comma, ",", nil, 1},
				{token.Dot, ".", nil, 1},
				{token.Minus, "-", nil, 1},
				{token.Plus, "+", nil, 1},
				{token.Semi, ";", nil, 1},
				{token.Star, "*", nil, 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "keyword prefix stays an identifier",
			src:  "forest",
			want: []view{
				{token.Ident, "forest", nil, 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "underscore identifier",
			src:  "_tmp1",
			want: []view{
				{token.Ident, "_tmp1", nil, 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "string literal",
			src:  `"abc"`,
			want: []view{
				{token.String, `"abc"`, "abc", 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "string keeps backslashes verbatim",
			src:  `"a\nb"`,
			want: []view{
				{token.String, `"a\nb"`, `a\nb`, 1},
				{token.EOF, "", nil, 1},
			},
		},
		{
			name: "multi-line string reports its starting line",
			src:  "\"a\nb\" x",
			want: []view{
				{token.String, "\"a\nb\"", "a\nb", 1},
				{token.Ident, "x", nil, 2},
				{token.EOF, "", nil, 2},
			},
		},
		{
			name: "statement",
			src:  "var answer = 42;",
			want: []view{
				{token.Var, "var", nil, 1},
				{token.Ident, "answer", nil, 1},
				{token.Eq, "=", nil, 1},
				{token.Number, "42", float64(42), 1},
				{token.Semi, ";", nil, 1},
				{token.EOF, "", nil, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, col := scan(t, tt.src)
			if col.HasErrors() {
				t.Fatalf("unexpected diagnostics: %v", col.Diagnostics())
			}
			if diff := cmp.Diff(tt.want, views(got)); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	src := "and class else false for fun if nil or print return super this true var while"
	got, col := scan(t, src)
	if col.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", col.Diagnostics())
	}

	want := []token.Type{
		token.And, token.Class, token.Else, token.False, token.For, token.Fun,
		token.If, token.Nil, token.Or, token.Print, token.Return, token.Super,
		token.This, token.True, token.Var, token.While, token.EOF,
	}
	var gotTypes []token.Type
	for _, tok := range got {
		gotTypes = append(gotTypes, tok.Type)
	}
	if diff := cmp.Diff(want, gotTypes); diff != "" {
		t.Errorf("keyword types mismatch (-want +got):\n%s", diff)
	}

	for _, tok := range got[:len(got)-1] {
		if tok.Literal != nil {
			t.Errorf("keyword %q carries literal %v, want none", tok.Lexeme, tok.Literal)
		}
		if spelling := token.TypeStrings[tok.Type]; spelling != tok.Lexeme {
			t.Errorf("keyword lexeme %q does not match spelling %q", tok.Lexeme, spelling)
		}
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	got, col := scan(t, "@#1")

	want := []view{
		{token.Number, "1", float64(1), 1},
		{token.EOF, "", nil, 1},
	}
	if diff := cmp.Diff(want, views(got)); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}

	diags := col.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), diags)
	}
	for i, ch := range []string{"@", "#"} {
		if !strings.Contains(diags[i].Message, ch) {
			t.Errorf("diagnostic %d = %q, want it to name %q", i, diags[i].Message, ch)
		}
		if diags[i].Line != 1 || diags[i].Column != i+1 {
			t.Errorf("diagnostic %d at %d:%d, want 1:%d", i, diags[i].Line, diags[i].Column, i+1)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{"single line", `"abc`, 1},
		{"detection line after newlines", "\"abc\ndef", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, col := scan(t, tt.src)

			want := []view{{token.EOF, "", nil, tt.wantLine}}
			if diff := cmp.Diff(want, views(got)); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}

			diags := col.Diagnostics()
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
			}
			if diags[0].Message != "Unterminated string literal" {
				t.Errorf("message = %q", diags[0].Message)
			}
			if diags[0].Line != tt.wantLine {
				t.Errorf("diagnostic line = %d, want %d", diags[0].Line, tt.wantLine)
			}
		})
	}
}

func TestSingleTrailingEOF(t *testing.T) {
	inputs := []string{
		"", " ", "\n\n", "// only a comment", `"unterminated`, "@@@",
		"var x = 1; // stmt\nprint x;", "12.5.", "(((",
	}
	for _, src := range inputs {
		got, _ := scan(t, src)
		if len(got) == 0 || got[len(got)-1].Type != token.EOF {
			t.Errorf("%q: sequence does not end with EOF: %v", src, got)
			continue
		}
		last := got[len(got)-1]
		if last.Lexeme != "" {
			t.Errorf("%q: EOF lexeme = %q, want empty", src, last.Lexeme)
		}
		for _, tok := range got[:len(got)-1] {
			if tok.Type == token.EOF {
				t.Errorf("%q: interior EOF token in %v", src, got)
			}
		}
	}
}

func TestEOFLineIsFinalLine(t *testing.T) {
	got, _ := scan(t, "a\nb\nc\n")
	eof := got[len(got)-1]
	if eof.Line != 4 {
		t.Errorf("EOF line = %d, want 4", eof.Line)
	}
}

// offsetOf resolves a 1-based line/column pair back to a rune offset.
func offsetOf(source []rune, line, column int) int {
	offset := 0
	for line > 1 {
		if source[offset] == '\n' {
			line--
		}
		offset++
	}
	return offset + column - 1
}

// Scanning is lossless over non-discarded spans: every token's lexeme must
// appear verbatim in the source at the position the token reports.
func TestPositionConsistency(t *testing.T) {
	src := "var _x = 12.5.;\n// skipped\nif (a != b) { print \"multi\nline\"; }\n"
	runes := []rune(src)
	got, col := scan(t, src)
	if col.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", col.Diagnostics())
	}

	for _, tok := range got {
		start := offsetOf(runes, tok.Line, tok.Column)
		end := start + tok.Len
		if end > len(runes) {
			t.Fatalf("token %v points past end of source", tok)
		}
		if span := string(runes[start:end]); span != tok.Lexeme {
			t.Errorf("token %v: source span %q != lexeme %q", tok.Type, span, tok.Lexeme)
		}
	}
}

func TestLineNumbersCountNewlinesBeforeLexeme(t *testing.T) {
	src := "one\ntwo three\n\nfour"
	got, col := scan(t, src)
	if col.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", col.Diagnostics())
	}

	wantLines := map[string]int{"one": 1, "two": 2, "three": 2, "four": 4}
	for _, tok := range got[:len(got)-1] {
		if want := wantLines[tok.Lexeme]; tok.Line != want {
			t.Errorf("%q on line %d, want %d", tok.Lexeme, tok.Line, want)
		}
	}
}

func TestNextAfterEOFStaysEOF(t *testing.T) {
	l := lexer.New([]rune("x"), 0, nil)
	l.Next()
	for i := 0; i < 3; i++ {
		if tok := l.Next(); tok.Type != token.EOF {
			t.Fatalf("call %d after end: got %v, want EOF", i, tok.Type)
		}
	}
}
