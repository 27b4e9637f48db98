package token_test

import (
	"testing"

	"github.com/xplshn/glox/pkg/token"
)

func TestKeywordTable(t *testing.T) {
	if len(token.KeywordMap) != 16 {
		t.Fatalf("keyword table has %d entries, want 16", len(token.KeywordMap))
	}
	for spelling, typ := range token.KeywordMap {
		if got := token.TypeStrings[typ]; got != spelling {
			t.Errorf("TypeStrings[%v] = %q, want %q", typ, got, spelling)
		}
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  token.Type
		want string
	}{
		{token.EOF, "EOF"},
		{token.Neq, "NEQ"},
		{token.Number, "NUMBER"},
		{token.While, "WHILE"},
		{token.Type(9999), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
