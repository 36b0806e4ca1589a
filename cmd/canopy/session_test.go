package main

import (
	"strings"
	"testing"
)

func mustEval(t *testing.T, s *session, input string) string {
	t.Helper()
	out, quit, err := s.eval(input)
	if err != nil {
		t.Fatalf("eval(%q): %v", input, err)
	}
	if quit {
		t.Fatalf("eval(%q) ended the session", input)
	}
	return out
}

func TestSessionDefinesAndParses(t *testing.T) {
	s := newSession()

	if out := mustEval(t, s, `greeting <- "hello" / "hi"`); out != "defined greeting\n" {
		t.Errorf("define output = %q", out)
	}
	if out := mustEval(t, s, "word <- [a-z]+\nnum <- [0-9]+"); out != "defined word\ndefined num\n" {
		t.Errorf("define output = %q", out)
	}

	out := mustEval(t, s, ":parse hello")
	if !strings.Contains(out, `SyntaxNode "hello" @0`) {
		t.Errorf("unexpected tree:\n%s", out)
	}

	_, _, err := s.eval(":parse hey")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if want := "Line 1: expected \"hello\" or \"hi\"\nhey\n^"; err.Error() != want {
		t.Errorf("got:\n%s\nwant:\n%s", err, want)
	}
}

func TestSessionRedefineKeepsOrder(t *testing.T) {
	s := newSession()
	mustEval(t, s, "a <- b\nb <- 'x'")
	if out := mustEval(t, s, "a <- b b"); out != "redefined a\n" {
		t.Errorf("redefine output = %q", out)
	}
	if len(s.rules) != 2 || s.rules[0].Name != "a" {
		t.Fatalf("root should stay first: %v", s.rules)
	}
	if _, _, err := s.eval(":parse xx"); err != nil {
		t.Errorf("redefined rule not used: %v", err)
	}
}

func TestSessionQuotedParseText(t *testing.T) {
	s := newSession()
	mustEval(t, s, `lines <- ("x" "\n")+`)
	out := mustEval(t, s, `:parse "x\nx\n"`)
	if !strings.HasPrefix(out, `SyntaxNode "x\nx\n" @0`) {
		t.Errorf("unexpected tree:\n%s", out)
	}
	if _, _, err := s.eval(`:parse "x\n`); err == nil || !strings.Contains(err.Error(), "bad quoted text") {
		t.Errorf("expected quoting error, got %v", err)
	}
}

func TestSessionEmitAndRename(t *testing.T) {
	s := newSession()
	mustEval(t, s, "list <- '[' ']'")

	out := mustEval(t, s, ":emit")
	for _, want := range []string{"module Repl", "def _read_list"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	mustEval(t, s, ":grammar Maps.Lists")
	if out := mustEval(t, s, ":grammar"); out != "grammar Maps.Lists\n" {
		t.Errorf(":grammar output = %q", out)
	}
	out = mustEval(t, s, ":emit")
	if !strings.Contains(out, "module Maps\n  module Lists\n") {
		t.Errorf("expected nested modules in:\n%s", out)
	}

	out = mustEval(t, s, ":rules")
	if !strings.HasPrefix(out, "grammar Maps.Lists\n") || !strings.Contains(out, "list <- ") {
		t.Errorf("unexpected listing:\n%s", out)
	}
}

func TestSessionSample(t *testing.T) {
	s := newSession()
	mustEval(t, s, "digits <- [0-9]+")
	out := mustEval(t, s, ":sample 3")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 samples, got:\n%s", out)
	}
	for _, l := range lines {
		if strings.Trim(l, `"0123456789`) != "" {
			t.Errorf("unexpected sample %s", l)
		}
	}
	if _, _, err := s.eval(":sample zero"); err == nil {
		t.Error("expected an error for a bad count")
	}
}

func TestSessionErrors(t *testing.T) {
	s := newSession()
	tests := []struct {
		input string
		want  string
	}{
		{":parse x", "no rules defined"},
		{":emit", "no rules defined"},
		{"a <- )", "expected expression"},
		{":frobnicate", "unknown command :frobnicate"},
	}
	for _, tt := range tests {
		_, _, err := s.eval(tt.input)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("eval(%q): err = %v, want %q", tt.input, err, tt.want)
		}
	}

	mustEval(t, s, "a <- 'x'")
	mustEval(t, s, ":grammar repl")
	if _, _, err := s.eval(":emit"); err == nil || !strings.Contains(err.Error(), "grammar name 'repl' must start") {
		t.Errorf("expected grammar name error, got %v", err)
	}
	mustEval(t, s, ":grammar Repl")

	mustEval(t, s, "a <- missing")
	if _, _, err := s.eval(":parse x"); err == nil || !strings.Contains(err.Error(), "undefined rule 'missing'") {
		t.Errorf("expected undefined rule error, got %v", err)
	}
}

func TestSessionResetAndQuit(t *testing.T) {
	s := newSession()
	mustEval(t, s, "a <- 'x'")
	if out := mustEval(t, s, ":reset"); out != "rules cleared\n" {
		t.Errorf(":reset output = %q", out)
	}
	if len(s.rules) != 0 {
		t.Errorf("rules left after reset: %d", len(s.rules))
	}
	if out := mustEval(t, s, "   "); out != "" {
		t.Errorf("blank input output = %q", out)
	}
	if _, quit, _ := s.eval(":quit"); !quit {
		t.Error(":quit should end the session")
	}
}

func TestNeedsMore(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"a <- 'x'", false},
		{"a <-", true},
		{"a <- ('x'", true},
		{"a <- \"abc", true},
		{"a <- )", false},
		{":parse (", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := needsMore(tt.src); got != tt.want {
			t.Errorf("needsMore(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
