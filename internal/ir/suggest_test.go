package ir

import (
	"strings"
	"testing"

	"github.com/y8/canopy/internal/parser"
)

func TestClosestRule(t *testing.T) {
	defined := []string{"expression", "term", "number", "ws"}
	tests := []struct {
		name string
		want string
	}{
		{"expresion", "expression"},
		{"expresssion", "expression"},
		{"Term", "term"},
		{"nmber", "number"},
		{"b", ""},
		{"statement", ""},
	}
	for _, tt := range tests {
		if got := closestRule(tt.name, defined); got != tt.want {
			t.Errorf("closestRule(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestUndefinedRuleSuggestion(t *testing.T) {
	p := parser.New("grammar G\n  sum <- number '+' numbr\n  number <- [0-9]+")
	g := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("parse errors: %s", p.Diagnostics().Format("test"))
	}
	_, diags := Lower(g)
	out := diags.Format("g.peg")
	if !strings.Contains(out, "undefined rule 'numbr' (did you mean 'number'?)") {
		t.Errorf("expected suggestion in:\n%s", out)
	}
}
