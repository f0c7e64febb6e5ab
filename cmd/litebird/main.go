// Command litebird parses SQL scripts and reports syntax errors. It can
// also print tokens, dump the AST, re-emit the SQL and check the printed
// statements against SQLite.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"

	"github.com/ha1tch/litebird/ast"
	"github.com/ha1tch/litebird/config"
	"github.com/ha1tch/litebird/lexer"
	"github.com/ha1tch/litebird/parser"
	"github.com/ha1tch/litebird/sqlitecheck"
)

var version string

type options struct {
	Files    []string `short:"f" long:"file" description:"Read SQL from the file, rather than stdin (repeatable)" value-name:"filename"`
	Config   string   `long:"config" description:"YAML config file" value-name:"path"`
	Tokens   bool     `long:"tokens" description:"Print the token stream"`
	Dump     bool     `long:"dump" description:"Pretty print the AST"`
	Print    bool     `long:"print" description:"Print the parsed statements as SQL"`
	Verify   bool     `long:"verify" description:"Execute the printed statements on an in-memory SQLite database"`
	LogLevel string   `long:"log-level" description:"trace, debug, info, warn or error" value-name:"level"`
	NoColor  bool     `long:"no-color" description:"Disable colors in --dump output"`
	Help     bool     `long:"help" description:"Show this help"`
	Version  bool     `long:"version" description:"Show this version"`
}

// errHandled means the condition was already reported to the user.
type errHandled struct{ code int }

func (e errHandled) Error() string { return fmt.Sprintf("exit %d", e.code) }

func parseOptions(args []string, stdout io.Writer) (*options, []string, error) {
	var opts options
	p := flags.NewParser(&opts, flags.None)
	p.Usage = "[option...] [file...]"
	rest, err := p.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	if opts.Help {
		p.WriteHelp(stdout)
		return nil, nil, errHandled{0}
	}
	if opts.Version {
		fmt.Fprintln(stdout, version)
		return nil, nil, errHandled{0}
	}

	files := append(opts.Files, rest...)
	if len(files) == 0 {
		files = []string{"-"}
	}
	return &opts, files, nil
}

type input struct {
	name string
	text string
}

func readInputs(files []string, stdin io.Reader) ([]input, error) {
	var inputs []input
	for _, f := range files {
		var buf []byte
		var err error
		if f == "-" {
			buf, err = io.ReadAll(stdin)
			f = "<stdin>"
		} else {
			buf, err = os.ReadFile(f)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		inputs = append(inputs, input{name: f, text: string(buf)})
	}
	return inputs, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, files, err := parseOptions(args, stdout)
	if err != nil {
		if h, ok := err.(errHandled); ok {
			return h.code
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}
	verify := opts.Verify || cfg.VerifySQLite

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "litebird",
		Level:  cfg.Level(),
		Output: stderr,
	})

	inputs, err := readInputs(files, stdin)
	if err != nil {
		logger.Error("cannot read input", "error", err)
		return 2
	}

	printer := pp.New()
	printer.SetOutput(stdout)
	printer.SetColoringEnabled(!opts.NoColor)

	failed := false
	for _, in := range inputs {
		log := logger.With("file", in.name)

		if opts.Tokens {
			for _, tok := range lexer.Tokenize(in.text) {
				fmt.Fprintf(stdout, "%s\t%s\t%q\n", tok.Pos(), tok.Type, tok.Raw)
			}
		}

		p := parser.NewWithOptions(lexer.New(in.text), cfg.ParserOptions(log))
		program := p.ParseProgram()
		for _, e := range p.ParseErrors() {
			fmt.Fprintf(stderr, "%s: %s\n", in.name, e.Error())
		}
		if len(p.ParseErrors()) > 0 {
			failed = true
		}
		log.Debug("parsed", "statements", len(program.Statements), "errors", len(p.ParseErrors()))

		if opts.Dump {
			printer.Println(program)
		}
		if opts.Print {
			fmt.Fprint(stdout, program.String())
		}
		if verify && !verifyProgram(program, log, in.name, stderr) {
			failed = true
		}
	}

	if failed {
		return 1
	}
	return 0
}

func verifyProgram(program *ast.Program, logger hclog.Logger, name string, stderr io.Writer) bool {
	if err := sqlitecheck.Check(context.Background(), program, logger); err != nil {
		fmt.Fprintf(stderr, "%s: sqlite: %v\n", name, err)
		return false
	}
	return true
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
