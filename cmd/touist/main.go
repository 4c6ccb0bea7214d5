/*
Touist compiles a touist program into a solver-ready clause set.

Usage:

	touist [flags] INPUT.json
	touist [flags] --repl

touist reads a program already encoded as JSON by internal/astcodec (the
lexer/parser that produces this AST from touist source text is outside this
program's scope; see cmd/touist's companion tooling for that step) and runs
it through the evaluator/CNF/clause pipeline, writing DIMACS, SMT-LIB2-style
text, or QDIMACS to stdout or the file given by --output.

The flags are:

	-v, --version
		Give the current version of touist and then exit.

	-o, --output FILE
		Write the compiled output to FILE instead of stdout.

	--smt
		Compile targeting SMT mode instead of plain SAT.

	-c, --check-only
		Run only the evaluator's type/arity/shape checks and report
		diagnostics; do not emit clauses.

	--qbf
		Emit QDIMACS instead of DIMACS. Requires --quantifiers.

	--quantifiers FILE
		A JSON file holding the prenex quantifier blocks to use with --qbf,
		outermost block first: [{"kind":"forall","names":["a","b"]}, ...].

	--table
		Also print the proposition name/id table alongside the compiled
		output.

	--config FILE
		Load default flag values from the given TOML file. Explicit flags
		override values loaded from this file.

	--repl
		Start an interactive check-only session instead of compiling a file:
		each line read is a JSON-encoded statement, evaluated immediately and
		reported on, with command history via readline.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/touist-lang/touist"
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/astcodec"
	"github.com/touist-lang/touist/internal/clause"
	"github.com/touist-lang/touist/internal/diag"
	"github.com/touist-lang/touist/internal/version"
)

const (
	ExitSuccess = iota
	ExitCompileError
	ExitInitError
)

var (
	returnCode int = ExitSuccess

	flagVersion     = pflag.BoolP("version", "v", false, "Gives the version info")
	flagOutput      = pflag.StringP("output", "o", "", "Write compiled output to this file instead of stdout")
	flagSMT         = pflag.Bool("smt", false, "Compile targeting SMT mode instead of SAT")
	flagCheckOnly   = pflag.BoolP("check-only", "c", false, "Only run evaluator checks; do not emit clauses")
	flagQBF         = pflag.Bool("qbf", false, "Emit QDIMACS instead of DIMACS")
	flagQuantifiers = pflag.String("quantifiers", "", "JSON file of prenex quantifier blocks, for use with --qbf")
	flagTable       = pflag.Bool("table", false, "Also print the proposition name/id table")
	flagConfig      = pflag.String("config", "", "Load default flag values from the given TOML file")
	flagRepl        = pflag.Bool("repl", false, "Start an interactive check-only session")
)

// fileConfig is the shape loaded from --config; explicit flags override any
// value set here.
type fileConfig struct {
	SMT       bool   `toml:"smt"`
	CheckOnly bool   `toml:"check_only"`
	QBF       bool   `toml:"qbf"`
	Table     bool   `toml:"table"`
	Output    string `toml:"output"`
}

type quantifierBlockModel struct {
	Kind  string   `json:"kind"`
	Names []string `json:"names"`
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if *flagRepl {
		if err := runREPL(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
		}
		return
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Expected exactly one input file\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	if err := runCompile(args[0], cfg); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitCompileError
	}
}

func loadConfig() (fileConfig, error) {
	cfg := fileConfig{
		SMT:       *flagSMT,
		CheckOnly: *flagCheckOnly,
		QBF:       *flagQBF,
		Table:     *flagTable,
		Output:    *flagOutput,
	}

	if *flagConfig != "" {
		data, err := os.ReadFile(*flagConfig)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}

		var fromFile fileConfig
		if err := toml.Unmarshal(data, &fromFile); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}

		if !pflag.Lookup("smt").Changed {
			cfg.SMT = fromFile.SMT
		}
		if !pflag.Lookup("check-only").Changed {
			cfg.CheckOnly = fromFile.CheckOnly
		}
		if !pflag.Lookup("qbf").Changed {
			cfg.QBF = fromFile.QBF
		}
		if !pflag.Lookup("table").Changed {
			cfg.Table = fromFile.Table
		}
		if !pflag.Lookup("output").Changed && fromFile.Output != "" {
			cfg.Output = fromFile.Output
		}
	}

	return cfg, nil
}

func runCompile(path string, cfg fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	node, err := astcodec.Decode(data)
	if err != nil {
		return fmt.Errorf("decode AST: %w", err)
	}

	code, ok := node.(ast.TouistCode)
	if !ok {
		return fmt.Errorf("decoded AST root is not a program")
	}

	opts := touist.Options{
		SMTMode:   cfg.SMT,
		CheckOnly: cfg.CheckOnly,
	}

	if cfg.QBF {
		blocks, err := loadQuantifierBlocks(*flagQuantifiers)
		if err != nil {
			return err
		}
		opts.QuantifierBlocks = blocks
	}

	result, err := touist.Compile(code, opts)
	printDiagnostics(result.Diagnostics)
	if err != nil {
		return err
	}

	if cfg.CheckOnly {
		return nil
	}

	var out io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer f.Close()
		out = f
	}

	var text string
	if cfg.QBF {
		text = result.Clauses.QDIMACS(opts.QuantifierBlocks)
	} else {
		text = result.Clauses.DIMACS()
	}
	fmt.Fprintln(out, text)

	if cfg.Table {
		fmt.Fprint(out, result.Clauses.Table(true))
	}

	return nil
}

func loadQuantifierBlocks(path string) ([]clause.QuantifierBlock, error) {
	if path == "" {
		return nil, fmt.Errorf("--qbf requires --quantifiers FILE")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quantifiers: %w", err)
	}

	var models []quantifierBlockModel
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, fmt.Errorf("parse quantifiers: %w", err)
	}

	blocks := make([]clause.QuantifierBlock, len(models))
	for i, m := range models {
		var kind clause.QuantifierKind
		switch strings.ToLower(m.Kind) {
		case "forall", "universal":
			kind = clause.Universal
		case "exists", "existential":
			kind = clause.Existential
		default:
			return nil, fmt.Errorf("quantifier block %d: unknown kind %q", i, m.Kind)
		}
		blocks[i] = clause.QuantifierBlock{Kind: kind, Names: m.Names}
	}

	return blocks, nil
}

func printDiagnostics(diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.FullMessage())
	}
}

func runREPL(cfg fileConfig) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "touist> ",
		HistoryFile: "/tmp/touist_repl_history",
	})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	fmt.Println("touist check-only REPL. Paste one JSON-encoded statement per line; Ctrl-D to exit.")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		node, err := astcodec.Decode([]byte(line))
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			continue
		}

		stmt, ok := node.(ast.TouistCode)
		if !ok {
			stmt = ast.TouistCode{Stmts: []ast.Node{node}}
		}

		result, err := touist.Compile(stmt, touist.Options{CheckOnly: true})
		printDiagnostics(result.Diagnostics)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			continue
		}
		fmt.Println("OK")
	}
}
