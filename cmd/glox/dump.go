package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/xplshn/glox/pkg/config"
	"github.com/xplshn/glox/pkg/diag"
	"github.com/xplshn/glox/pkg/token"
)

// tokenDump is the serialized shape of one token for json/yaml output.
type tokenDump struct {
	Type    string `json:"type" yaml:"type"`
	Lexeme  string `json:"lexeme" yaml:"lexeme"`
	Literal any    `json:"literal,omitempty" yaml:"literal,omitempty"`
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
}

func dumpTokens(w io.Writer, files []diag.SourceFile, tokens []token.Token, cfg *config.Config) error {
	switch cfg.Format {
	case config.FormatJSON:
		payload, err := json.MarshalIndent(mapTokens(files, tokens), "", "  ")
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", payload)
		return err
	case config.FormatYAML:
		payload, err := yaml.Marshal(mapTokens(files, tokens))
		if err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		_, err = w.Write(payload)
		return err
	default:
		return dumpText(w, files, tokens)
	}
}

func dumpText(w io.Writer, files []diag.SourceFile, tokens []token.Token) error {
	for _, tok := range tokens {
		var err error
		if tok.Literal != nil {
			_, err = fmt.Fprintf(w, "%s:%d:%d\t%s\t%q\t%v\n",
				fileName(files, tok.FileIndex), tok.Line, tok.Column, tok.Type, tok.Lexeme, tok.Literal)
		} else {
			_, err = fmt.Fprintf(w, "%s:%d:%d\t%s\t%q\n",
				fileName(files, tok.FileIndex), tok.Line, tok.Column, tok.Type, tok.Lexeme)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func mapTokens(files []diag.SourceFile, tokens []token.Token) []tokenDump {
	dumps := make([]tokenDump, 0, len(tokens))
	for _, tok := range tokens {
		dumps = append(dumps, tokenDump{
			Type:    tok.Type.String(),
			Lexeme:  tok.Lexeme,
			Literal: tok.Literal,
			File:    fileName(files, tok.FileIndex),
			Line:    tok.Line,
			Column:  tok.Column,
		})
	}
	return dumps
}

func fileName(files []diag.SourceFile, index int) string {
	if index < 0 || index >= len(files) {
		return "unknown"
	}
	return files[index].Name
}
