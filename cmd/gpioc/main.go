package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xplshn/gpioc/pkg/cli"
	"github.com/xplshn/gpioc/pkg/config"
	"github.com/xplshn/gpioc/pkg/diag"
	"github.com/xplshn/gpioc/pkg/lexer"
	"github.com/xplshn/gpioc/pkg/snapshot"
	"github.com/xplshn/gpioc/pkg/token"
)

const appName = "gpioc"

// errDiagnostics marks a run that completed but reported problems.
var errDiagnostics = errors.New("diagnostics reported")

func main() {
	app := cli.NewApp(appName)
	app.Synopsis = "[options] [input.gpio] ..."
	app.Description = "Front end for the GPIO control language. Scans each input (or stdin) into a token stream and reports every lexical diagnostic found."
	app.Authors = []string{"xplshn"}
	app.Repository = "<https://github.com/xplshn/gpioc>"

	var (
		outFile     string
		format      string
		interactive bool
		verbose     bool
	)

	cfg := config.NewConfig()
	cfg.SetFeature(config.FeatColor, cli.IsTerminal(os.Stderr))

	fs := app.FlagSet
	fs.String(&outFile, "output", "o", "-", "Write the token dump to <file> ('-' is stdout).", "file")
	fs.String(&format, "format", "f", "text", "Token dump format (text, json).", "format")
	fs.Bool(&interactive, "interactive", "i", false, "Start an interactive scanning session.")
	fs.Bool(&verbose, "verbose", "v", false, "Print progress information.")
	fs.Int(&cfg.MaxTokenLength, "max-token-len", "", config.DefaultMaxTokenLength, "Longest identifier, keyword or number accepted.", "n")
	fs.Int(&cfg.MaxTokens, "max-tokens", "", 0, "Abort a scan that produces more than <n> tokens (0 = unlimited).", "n")
	fs.Int(&cfg.MaxDiagnostics, "max-errors", "", 0, "Keep at most <n> diagnostics per input (0 = unlimited).", "n")
	featureFlags := cfg.SetupFlagGroups(fs)

	app.Action = func(inputFiles []string) error {
		cfg.ApplyFlagGroups(featureFlags)
		if err := cfg.Validate(); err != nil {
			return fatalf("%v", err)
		}
		if format != "text" && format != "json" {
			return fatalf("unsupported output format '%s'. Supported: 'text', 'json'", format)
		}
		if interactive {
			return runREPL(cfg)
		}

		out := io.Writer(os.Stdout)
		if outFile != "-" {
			f, err := os.Create(outFile)
			if err != nil {
				return fatalf("could not create output file '%s': %v", outFile, err)
			}
			defer f.Close()
			out = f
		}

		units, err := readInputs(inputFiles)
		if err != nil {
			return fatalf("%v", err)
		}
		if verbose {
			fmt.Printf("Tokenizing %d source unit(s)...\n", len(units))
		}

		failed := false
		for _, u := range units {
			if !scanUnit(u, cfg, format, out, os.Stderr) {
				failed = true
			}
		}
		if verbose {
			fmt.Println("Done!")
		}
		if failed {
			return errDiagnostics
		}
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func fatalf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	fmt.Fprintf(os.Stderr, "%s: error: %v\n", appName, err)
	return err
}

type sourceUnit struct {
	Name    string
	Content string
}

func readInputs(paths []string) ([]sourceUnit, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read stdin: %w", err)
		}
		return []sourceUnit{{Name: "<stdin>", Content: string(data)}}, nil
	}
	units := make([]sourceUnit, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read file '%s': %w", path, err)
		}
		units = append(units, sourceUnit{Name: path, Content: string(data)})
	}
	return units, nil
}

// scanUnit scans one unit with its own collector, dumps the tokens and
// emits the diagnostics. It reports whether the unit was clean.
func scanUnit(u sourceUnit, cfg *config.Config, format string, out, errOut io.Writer) bool {
	diags := cfg.NewCollector()
	defer diags.Release()

	stream, err := lexer.New(u.Content, cfg, diags).Scan()
	if stream != nil {
		if cfg.IsFeatureEnabled(config.FeatTokens) {
			if werr := writeTokens(out, stream, format, cfg.IsFeatureEnabled(config.FeatEOF)); werr != nil {
				fmt.Fprintf(errOut, "%s: error: could not write tokens: %v\n", appName, werr)
			}
		}
		stream.Release()
	}

	if diags.HasErrors() {
		fmt.Fprintf(errOut, "%s:\n", u.Name)
		emitter := diag.NewEmitter(errOut, u.Content)
		emitter.Color = cfg.IsFeatureEnabled(config.FeatColor)
		emitter.Caret = cfg.IsFeatureEnabled(config.FeatCaret)
		emitter.EmitAll(diags)
	}
	if err != nil && !errors.Is(err, lexer.ErrNoTokens) {
		fmt.Fprintf(errOut, "%s: error: %s: %v\n", appName, u.Name, err)
	}
	return err == nil && !diags.HasErrors()
}

func writeTokens(w io.Writer, stream *token.Stream, format string, withEOF bool) error {
	toks := stream.Tokens()
	if !withEOF && len(toks) > 0 && toks[len(toks)-1].Kind == token.EOF {
		toks = toks[:len(toks)-1]
	}
	if format == "json" {
		view := snapshot.FromStream(stream)[:len(toks)]
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	for _, tok := range toks {
		if _, err := fmt.Fprintf(w, "%s \"%s\" [line: %d, column: %d]\n", tok.Kind, tok.Lexeme, tok.Line, tok.Column); err != nil {
			return err
		}
	}
	return nil
}
