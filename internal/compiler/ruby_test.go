package compiler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runGenerated compiles grammar to Ruby, parses each input with the result
// and returns one line per input: "ok <text>" or the error message.
func runGenerated(t *testing.T, grammar, module string, inputs ...string) []string {
	t.Helper()
	if _, err := exec.LookPath("ruby"); err != nil {
		t.Skip("ruby not found on PATH, skipping integration test")
	}

	res := Compile(grammar)
	if res.Diagnostics.HasErrors() {
		t.Fatalf("compile errors:\n%s", res.Diagnostics.Format("test.peg"))
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "parser.rb"), []byte(res.Source), 0644); err != nil {
		t.Fatal(err)
	}
	script := fmt.Sprintf(`require_relative "parser"
ARGV.each do |input|
  begin
    tree = %[1]s.parse(input)
    puts "ok #{tree.text}"
  rescue %[1]s::ParseFailure => e
    puts e.message
  end
  puts "--"
end
`, module)
	if err := os.WriteFile(filepath.Join(dir, "main.rb"), []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command("ruby", append([]string{"main.rb"}, inputs...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("ruby failed: %v\n%s\ngenerated:\n%s", err, out, res.Source)
	}
	results := strings.Split(strings.TrimSuffix(string(out), "--\n"), "--\n")
	for i := range results {
		results[i] = strings.TrimSuffix(results[i], "\n")
	}
	return results
}

func TestRubySingleLiteral(t *testing.T) {
	got := runGenerated(t, "grammar G\n  a <- \"foo\"\n", "G", "foo", "bar", "foox")
	want := []string{
		"ok foo",
		"Line 1: expected \"foo\"\nbar\n^",
		"Line 1: expected <EOF>\nfoox\n   ^",
	}
	compareResults(t, got, want)
}

func TestRubyListsExample(t *testing.T) {
	src, err := os.ReadFile("../../examples/lists.peg")
	if err != nil {
		t.Fatalf("failed to read lists.peg: %v", err)
	}
	got := runGenerated(t, string(src), "Maps::Lists", "[foo,NIL]", "[]", "[foo,]", "[foo")
	want := []string{
		"ok [foo,NIL]",
		"ok []",
		"Line 1: expected `nil` or [a-z]\n[foo,]\n     ^",
		"Line 1: expected [a-z] or \",\" or \"]\"\n[foo\n    ^",
	}
	compareResults(t, got, want)
}

func TestRubyMultilineError(t *testing.T) {
	grammar := "grammar G\n  lines <- line (\"\\n\" line)*\n  line <- [a-e]*\n"
	got := runGenerated(t, grammar, "G", "ab\ncxe")
	want := []string{"Line 2: expected [a-e] or \"\\n\" or <EOF>\ncxe\n ^"}
	compareResults(t, got, want)
}

func compareResults(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("input %d:\ngot:\n%s\nwant:\n%s", i, got[i], want[i])
		}
	}
}
