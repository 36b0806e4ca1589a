package ir_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/y8/canopy/internal/ast"
	"github.com/y8/canopy/internal/compiler"
	"github.com/y8/canopy/internal/ir"
	"github.com/y8/canopy/internal/parser"
)

func TestRoundTripAllExamples(t *testing.T) {
	files, err := filepath.Glob("../../examples/*.peg")
	if err != nil {
		t.Fatalf("failed to list examples: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no example grammars found")
	}

	for _, path := range files {
		name := filepath.Base(path)
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read %s: %v", name, err)
			}

			p := parser.New(string(src))
			g := p.Parse()
			if p.Diagnostics().HasErrors() {
				t.Fatalf("parse errors: %s", p.Diagnostics().Format(name))
			}

			// printing and reparsing must reach a fixed point
			printed := ast.Print(g)
			p2 := parser.New(printed)
			g2 := p2.Parse()
			if p2.Diagnostics().HasErrors() {
				t.Fatalf("reparse errors: %s\n%s", p2.Diagnostics().Format(name), printed)
			}
			if again := ast.Print(g2); again != printed {
				t.Errorf("print is not stable:\n%s\nvs\n%s", printed, again)
			}

			mod, diags := ir.Lower(g)
			if diags.HasErrors() {
				t.Fatalf("lower errors: %s", diags.Format(name))
			}
			if errs := ir.Validate(mod); len(errs) > 0 {
				t.Fatalf("IR validation errors: %v", errs)
			}

			res := compiler.CompileTarget(string(src), compiler.DefaultTarget, path)
			if res.Diagnostics.HasErrors() {
				t.Fatalf("compile errors: %s", res.Diagnostics.Format(name))
			}
			for _, r := range mod.Rules {
				if !strings.Contains(res.Source, "def _read_"+r.Name+"\n") {
					t.Errorf("missing reader for rule %s", r.Name)
				}
			}
			if !strings.HasSuffix(res.OutputPath, strings.TrimSuffix(name, ".peg")+".rb") {
				t.Errorf("unexpected output path %q", res.OutputPath)
			}
		})
	}
}
