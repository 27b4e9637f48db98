package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/xplshn/glox/pkg/cli"
	"github.com/xplshn/glox/pkg/config"
	"github.com/xplshn/glox/pkg/diag"
	"github.com/xplshn/glox/pkg/lexer"
	"github.com/xplshn/glox/pkg/token"
)

// exitDataErr is sysexits EX_DATAERR, the conventional exit code for
// malformed input.
const exitDataErr = 65

func main() {
	app := cli.NewApp("glox")
	app.Synopsis = "[options] [script.lox ...]"
	app.Description = "A lexical scanner for the Lox language. Reads Lox source files and dumps the token stream; with no input files it starts an interactive prompt."
	app.Authors = []string{"xplshn"}
	app.Repository = "<https://github.com/xplshn/glox>"

	var (
		format    string
		color     string
		maxErrors int
	)
	fs := app.FlagSet
	fs.String(&format, "format", "f", "text", "Token dump format (text, json, yaml).", "format")
	fs.String(&color, "color", "c", "auto", "Color diagnostics (auto, always, never).", "mode")
	fs.Int(&maxErrors, "max-errors", "e", 0, "Stop printing diagnostics after <n> errors (0 = unlimited).", "n")

	cfg := config.NewConfig()

	app.Action = func(inputFiles []string) error {
		if err := cfg.SetFormat(format); err != nil {
			return err
		}
		if err := cfg.SetColor(color); err != nil {
			return err
		}
		cfg.MaxErrors = maxErrors

		if len(inputFiles) == 0 {
			return runPrompt(cfg)
		}
		return runFiles(inputFiles, cfg)
	}

	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func runFiles(paths []string, cfg *config.Config) error {
	reporter := &diag.Collector{}
	files, tokens, err := readAndScanFiles(paths, reporter)
	if err != nil {
		return err
	}

	if err := dumpTokens(os.Stdout, files, tokens, cfg); err != nil {
		return err
	}

	if reporter.HasErrors() {
		printDiagnostics(files, reporter.Diagnostics(), cfg)
		os.Exit(exitDataErr)
	}
	return nil
}

// runPrompt scans one line at a time. Errors are reported but do not end the
// session, and the error state resets between lines.
func runPrompt(cfg *config.Config) error {
	reporter := &diag.Collector{}
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("> ")
	for scanner.Scan() {
		source := []rune(scanner.Text())
		files := []diag.SourceFile{{Name: "repl", Content: source}}

		l := lexer.New(source, 0, reporter)
		if err := dumpTokens(os.Stdout, files, l.ScanTokens(), cfg); err != nil {
			return err
		}
		if reporter.HasErrors() {
			printDiagnostics(files, reporter.Diagnostics(), cfg)
			reporter.Reset()
		}
		fmt.Print("> ")
	}
	fmt.Println()
	return scanner.Err()
}

// readAndScanFiles tokenizes every input file into one stream. Per-file EOF
// tokens are dropped; the combined stream ends with a single EOF carrying the
// last file's index.
func readAndScanFiles(paths []string, reporter diag.Reporter) ([]diag.SourceFile, []token.Token, error) {
	var files []diag.SourceFile
	var allTokens []token.Token
	var last token.Token

	for i, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read file '%s': %w", path, err)
		}
		source := []rune(string(content))
		files = append(files, diag.SourceFile{Name: path, Content: source})

		l := lexer.New(source, i, reporter)
		for _, tok := range l.ScanTokens() {
			if tok.Type == token.EOF {
				last = tok
				break
			}
			allTokens = append(allTokens, tok)
		}
	}
	allTokens = append(allTokens, last)
	return files, allTokens, nil
}

func printDiagnostics(files []diag.SourceFile, diags []diag.Diagnostic, cfg *config.Config) {
	useColor := cfg.UseColor(term.IsTerminal(int(os.Stderr.Fd())))

	limit := len(diags)
	if cfg.MaxErrors > 0 && cfg.MaxErrors < limit {
		limit = cfg.MaxErrors
	}
	diag.FprintAll(os.Stderr, files, diags[:limit], useColor)
	if rest := len(diags) - limit; rest > 0 {
		fmt.Fprintf(os.Stderr, "glox: %d more error(s) not shown\n", rest)
	}
}
