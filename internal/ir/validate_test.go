package ir

import (
	"strings"
	"testing"
)

func TestValidateAcceptsGrammar(t *testing.T) {
	g := parseAndLower(t, `grammar G
  list  <- "[" value ("," value)* "]"
  value <- list / [0-9]+ / ""`)
	if errs := Validate(g); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateLeftRecursion(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"direct", "grammar G\n  a <- a 'x' / 'y'", "left recursion: a -> a"},
		{"indirect", "grammar G\n  a <- b 'x'\n  b <- a / 'y'", "left recursion: a -> b -> a"},
		{"through nullable", "grammar G\n  a <- 'x'? b\n  b <- a 'y'", "left recursion: a -> b -> a"},
		{"through predicate", "grammar G\n  a <- !'x' a", "left recursion: a -> a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(parseAndLower(t, tt.src))
			if !strings.Contains(strings.Join(errs, "\n"), tt.want) {
				t.Errorf("expected %q in %v", tt.want, errs)
			}
		})
	}
}

func TestValidateRightRecursionIsFine(t *testing.T) {
	g := parseAndLower(t, "grammar G\n  a <- 'x' a / 'y'")
	if errs := Validate(g); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateNullableRepeat(t *testing.T) {
	g := parseAndLower(t, "grammar G\n  a <- b*\n  b <- 'x'?")
	errs := Validate(g)
	if len(errs) != 1 || !strings.Contains(errs[0], "rule a: repeated expression can match empty input") {
		t.Errorf("unexpected errors %v", errs)
	}
}

func TestValidateEmptyGrammar(t *testing.T) {
	errs := Validate(&Grammar{Name: "Empty"})
	if len(errs) != 1 || !strings.Contains(errs[0], "no rules") {
		t.Errorf("unexpected errors %v", errs)
	}
}
