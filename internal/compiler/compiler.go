package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/y8/canopy/internal/diagnostic"
	"github.com/y8/canopy/internal/ir"
	"github.com/y8/canopy/internal/parser"
)

// Result holds the output of a compilation
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	Grammar     *ir.Grammar
	// Source is the generated parser, empty when there were errors.
	Source string
	// OutputPath is where the target would write a parser for the given
	// grammar path.
	OutputPath string
}

// Load runs the front end: parse -> lower -> validate. The grammar is nil
// when any stage reported an error.
func Load(source string) (*ir.Grammar, *diagnostic.Diagnostics) {
	p := parser.New(source)
	g := p.Parse()
	if p.Diagnostics().HasErrors() {
		return nil, p.Diagnostics()
	}

	diags := p.Diagnostics()
	mod, lowered := ir.Lower(g)
	diags.Merge(lowered)
	if diags.HasErrors() {
		return nil, diags
	}

	for _, msg := range ir.Validate(mod) {
		diags.Errorf(0, 0, "%s", msg)
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return mod, diags
}

// Check runs the front end only (no codegen).
func Check(source string) *diagnostic.Diagnostics {
	_, diags := Load(source)
	return diags
}

// Compile runs the full pipeline for the default target.
func Compile(source string) *Result {
	return CompileTarget(source, DefaultTarget, "")
}

// CompileTarget runs the full pipeline for target. grammarPath only
// determines Result.OutputPath and may be empty.
func CompileTarget(source, target, grammarPath string) *Result {
	res := &Result{}

	b, err := getBackend(target)
	if err != nil {
		res.Diagnostics = diagnostic.New()
		res.Diagnostics.Errorf(0, 0, "%s", err)
		return res
	}

	res.Grammar, res.Diagnostics = Load(source)
	if res.Grammar == nil {
		return res
	}

	res.Source = Generate(res.Grammar, b)
	if grammarPath != "" {
		res.OutputPath = b.OutputPathname(grammarPath)
	}
	return res
}

// EmitToTarget compiles the grammar at grammarPath and writes the parser.
// The output goes next to the grammar unless outPath is set. It returns the
// path written.
func EmitToTarget(grammarPath, target, outPath string) (string, error) {
	source, err := os.ReadFile(grammarPath)
	if err != nil {
		return "", fmt.Errorf("failed to read grammar: %w", err)
	}

	res := CompileTarget(string(source), target, grammarPath)
	if res.Diagnostics.HasErrors() {
		return "", fmt.Errorf("compilation errors:\n%s", res.Diagnostics.Format(grammarPath))
	}

	if outPath == "" {
		outPath = res.OutputPath
	}
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outPath, []byte(res.Source), 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return outPath, nil
}
