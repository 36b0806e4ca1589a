package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/y8/canopy/internal/compiler"
	"github.com/y8/canopy/internal/diagnostic"
	"github.com/y8/canopy/internal/formatter"
	"github.com/y8/canopy/internal/linter"
	"github.com/y8/canopy/internal/packrat"
	"github.com/y8/canopy/internal/parser"
	"github.com/y8/canopy/internal/testgen"
)

const usage = `canopy - PEG parser generator

Usage:
  canopy build [--target T] [-o out] <file.peg>   Generate a parser
  canopy check <file.peg>                         Parse and validate only
  canopy lint <file.peg>                          Run lint checks for style/best practices
  canopy fmt [-w] <file.peg>                      Print (or rewrite) in canonical form
  canopy parse [--stats] <file.peg> [input]       Parse input (or stdin) with the grammar
  canopy sample [-n N] [--seed S] <file.peg>      Print N random inputs the grammar accepts
  canopy repl                                     Define rules and try them interactively

Options:
  --target T    Output language (default ruby)
  -o out        Write the parser to out instead of next to the grammar
  -w            Write the formatted grammar back to the file
  --stats       Report rule calls and memo hits on stderr
  -n N          Number of samples (default 10)
  --seed S      Seed for sample generation

Examples:
  canopy build grammars/json.peg           Write grammars/json.rb
  canopy build -o lib/calc.rb calc.peg     Write lib/calc.rb
  printf '[a,b]' | canopy parse lists.peg  Print the syntax tree
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		handleBuild(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "lint":
		handleLint(os.Args[2:])
	case "fmt":
		handleFmt(os.Args[2:])
	case "parse":
		handleParse(os.Args[2:])
	case "sample":
		handleSample(os.Args[2:])
	case "repl":
		os.Exit(runRepl())
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// splitArgs separates options from positional arguments. Options named in
// valued take the following argument as their value.
func splitArgs(args []string, valued ...string) (map[string]string, []string) {
	opts := make(map[string]string)
	var files []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			files = append(files, arg)
			continue
		}
		takesValue := false
		for _, v := range valued {
			if arg == v {
				takesValue = true
			}
		}
		if !takesValue {
			opts[arg] = ""
			continue
		}
		if i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "Error: %s needs a value\n", arg)
			os.Exit(1)
		}
		i++
		opts[arg] = args[i]
	}
	return opts, files
}

func rejectUnknown(opts map[string]string, known ...string) {
	for opt := range opts {
		ok := false
		for _, k := range known {
			if opt == k {
				ok = true
			}
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", opt)
			os.Exit(1)
		}
	}
}

func requireFile(files []string) string {
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}
	return files[0]
}

func readFile(path string) string {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}
	return string(source)
}

func printWarnings(filePath string, diag *diagnostic.Diagnostics) {
	for _, d := range diag.All() {
		if d.Severity != diagnostic.Error {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: warning: %s\n", filePath, d.Line, d.Column, d.Message)
		}
	}
}

func handleBuild(args []string) {
	opts, files := splitArgs(args, "--target", "-o")
	rejectUnknown(opts, "--target", "-o")
	filePath := requireFile(files)

	target := compiler.DefaultTarget
	if t, ok := opts["--target"]; ok {
		target = t
	}

	printWarnings(filePath, compiler.Check(readFile(filePath)))
	outPath, err := compiler.EmitToTarget(filePath, target, opts["-o"])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", outPath)
}

func handleCheck(args []string) {
	opts, files := splitArgs(args)
	rejectUnknown(opts)
	filePath := requireFile(files)

	diag := compiler.Check(readFile(filePath))
	if diag.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s\n", diag.Format(filePath))
		os.Exit(1)
	}
	printWarnings(filePath, diag)

	fmt.Println("No errors found.")
}

func handleLint(args []string) {
	opts, files := splitArgs(args)
	rejectUnknown(opts)
	filePath := requireFile(files)

	p := parser.New(readFile(filePath))
	g := p.Parse()

	if p.Diagnostics().HasErrors() {
		fmt.Fprintf(os.Stderr, "%s\n", p.Diagnostics().Format(filePath))
		os.Exit(1)
	}

	diag := linter.Lint(g)

	if diag.Count() == 0 {
		fmt.Println("No lint warnings.")
		return
	}

	fmt.Print(diag.Format(filePath))
	fmt.Println()
	fmt.Printf("%d warning(s) found.\n", diag.Count())
}

func handleFmt(args []string) {
	opts, files := splitArgs(args)
	rejectUnknown(opts, "-w")
	filePath := requireFile(files)

	source := readFile(filePath)
	out, diag := formatter.FormatSource(source)
	if diag.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s\n", diag.Format(filePath))
		os.Exit(1)
	}

	if _, write := opts["-w"]; !write {
		fmt.Print(out)
		return
	}
	if out == source {
		return
	}
	if err := os.WriteFile(filePath, []byte(out), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Formatted %s\n", filePath)
}

func handleParse(args []string) {
	opts, files := splitArgs(args)
	rejectUnknown(opts, "--stats")
	filePath := requireFile(files)

	g, diag := compiler.Load(readFile(filePath))
	if g == nil {
		fmt.Fprintf(os.Stderr, "%s\n", diag.Format(filePath))
		os.Exit(1)
	}

	var input string
	if len(files) > 1 && files[1] != "-" {
		input = readFile(files[1])
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			os.Exit(1)
		}
		input = string(data)
	}

	var stats packrat.Stats
	tree, err := packrat.Parse(g, input, packrat.WithStats(&stats))
	if _, ok := opts["--stats"]; ok {
		fmt.Fprintf(os.Stderr, "rules: %d calls, %d evaluations, %d memo hits\n",
			stats.Calls, stats.Evaluations, stats.MemoHits)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(tree.Format())
}

func handleSample(args []string) {
	opts, files := splitArgs(args, "-n", "--seed")
	rejectUnknown(opts, "-n", "--seed")
	filePath := requireFile(files)

	count := testgen.DefaultCount
	if v, ok := opts["-n"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Error: -n needs a positive number, got %q\n", v)
			os.Exit(1)
		}
		count = n
	}
	var seed uint64
	if v, ok := opts["--seed"]; ok {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: bad seed %q\n", v)
			os.Exit(1)
		}
		seed = s
	}

	g, diag := compiler.Load(readFile(filePath))
	if g == nil {
		fmt.Fprintf(os.Stderr, "%s\n", diag.Format(filePath))
		os.Exit(1)
	}

	samples := testgen.Samples(g, count, seed)
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "No samples found.")
		os.Exit(1)
	}
	for _, s := range samples {
		fmt.Println(strconv.Quote(s))
	}
}
