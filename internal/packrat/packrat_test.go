package packrat

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/y8/canopy/internal/compiler"
	"github.com/y8/canopy/internal/ir"
)

func load(t *testing.T, src string) *ir.Grammar {
	t.Helper()
	g, diags := compiler.Load(src)
	if g == nil {
		t.Fatalf("grammar errors:\n%s", diags.Format("test.peg"))
	}
	return g
}

func loadExample(t *testing.T, name string) *ir.Grammar {
	t.Helper()
	src, err := os.ReadFile("../../examples/" + name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return load(t, string(src))
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  ParseError
		want string
	}{
		{"second line", ParseError{"ab\ncde", 4, []string{`"x"`}}, "Line 2: expected \"x\"\ncde\n ^"},
		{"first column", ParseError{"bar", 0, []string{`"foo"`}}, "Line 1: expected \"foo\"\nbar\n^"},
		{"empty input", ParseError{"", 0, []string{"<EOF>"}}, "Line 1: expected <EOF>\n\n^"},
		{"end of line", ParseError{"ab\ncde", 2, []string{"[0-9]"}}, "Line 1: expected [0-9]\nab\n  ^"},
		{"after trailing newline", ParseError{"ab\n", 3, []string{`"c"`}}, "Line 2: expected \"c\"\n\n^"},
		{"several", ParseError{"x", 1, []string{`"a"`, `"b"`}}, "Line 1: expected \"a\" or \"b\"\nx\n ^"},
		{"wide characters", ParseError{"héé\nçx", 5, []string{"[a-z]"}}, "Line 2: expected [a-z]\nçx\n ^"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatError(&tt.err); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestRecordFailure(t *testing.T) {
	e := &ParseError{Offset: 3, Expected: []string{"a"}}
	e.record(2, "stale")
	e.record(3, "b")
	e.record(3, "a")
	if strings.Join(e.Expected, ",") != "a,b" {
		t.Errorf("tie handling: %v", e.Expected)
	}
	e.record(5, "c")
	if e.Offset != 5 || strings.Join(e.Expected, ",") != "c" {
		t.Errorf("farther failure should replace: %d %v", e.Offset, e.Expected)
	}
}

func TestParseSingleLiteral(t *testing.T) {
	g := load(t, "grammar G\n  a <- \"foo\"")

	tree, err := Parse(g, "foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Text != "foo" || tree.Offset != 0 || len(tree.Elements) != 0 {
		t.Errorf("unexpected tree %+v", tree)
	}

	_, err = Parse(g, "bar")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Offset != 0 || len(pe.Expected) != 1 || pe.Expected[0] != `"foo"` {
		t.Errorf("unexpected error record %+v", pe)
	}
	if want := "Line 1: expected \"foo\"\nbar\n^"; err.Error() != want {
		t.Errorf("got:\n%s\nwant:\n%s", err.Error(), want)
	}

	_, err = Parse(g, "foox")
	if err == nil || !strings.HasPrefix(err.Error(), "Line 1: expected <EOF>") {
		t.Errorf("trailing input should expect <EOF>, got %v", err)
	}
}

func TestParseListsExample(t *testing.T) {
	g := loadExample(t, "lists.peg")
	tests := []struct {
		input string
		want  string // "" for success
	}{
		{"[foo,NIL]", ""},
		{"[]", ""},
		{"[nil,bar,baz]", ""},
		{"[foo,]", "Line 1: expected `nil` or [a-z]\n[foo,]\n     ^"},
		{"[foo", "Line 1: expected [a-z] or \",\" or \"]\"\n[foo\n    ^"},
		{"[Foo]", "Line 1: expected `nil` or [a-z] or \"]\"\n[Foo]\n ^"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := Parse(g, tt.input)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error:\n%v", err)
				}
				if tree.Text != tt.input {
					t.Errorf("tree text = %q", tree.Text)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected an error, got tree:\n%s", tree.Format())
			}
			if err.Error() != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", err.Error(), tt.want)
			}
		})
	}
}

func TestParseLabelsAndActions(t *testing.T) {
	g := load(t, `grammar G
  pair  <- key:word "=" value:(word / number) <Pair>
  word  <- [a-z]+
  number <- [0-9]+ <Num>`)

	tree, err := Parse(g, "answer=42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Class != "TreeNode1" {
		t.Errorf("class = %q", tree.Class)
	}
	if len(tree.Actions) != 1 || tree.Actions[0] != "Pair" {
		t.Errorf("actions = %v", tree.Actions)
	}
	if key := tree.Label("key"); key == nil || key.Text != "answer" {
		t.Errorf("key label = %+v", key)
	}
	value := tree.Label("value")
	if value == nil || value.Text != "42" || value.Offset != 7 {
		t.Fatalf("value label = %+v", value)
	}
	if len(value.Actions) != 1 || value.Actions[0] != "Num" {
		t.Errorf("value actions = %v", value.Actions)
	}
	if tree.Label("missing") != nil {
		t.Error("unknown label should be nil")
	}

	out := tree.Format()
	for _, want := range []string{`TreeNode1 "answer=42" @0 <Pair>`, `  key: SyntaxNode "answer" @0`, `  value: SyntaxNode "42" @7 <Num>`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestParsePredicatesAndOptionals(t *testing.T) {
	g := load(t, `grammar G
  start <- &"a" word "!"? !.
  word  <- [a-z]+`)

	tests := []struct {
		input string
		ok    bool
	}{
		{"abc", true},
		{"abc!", true},
		{"bcd", false},
		{"abc!!", false},
	}
	for _, tt := range tests {
		tree, err := Parse(g, tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("Parse(%q): err = %v, want ok=%v", tt.input, err, tt.ok)
			continue
		}
		if tt.ok && tree.Elements[0].Text != "" {
			t.Errorf("Parse(%q): lookahead consumed %q", tt.input, tree.Elements[0].Text)
		}
	}
}

func TestMemoTransparency(t *testing.T) {
	g := loadExample(t, "json.peg")
	inputs := []string{
		`{"a": [1, 2.5, -3e4], "b": {"c": null}, "d": true}`,
		`[1, 2,, 3]`,
		`{"unterminated": "abc}`,
		`  [ "x" , false ]  `,
		`nul`,
		``,
	}
	for _, in := range inputs {
		memoTree, memoErr := Parse(g, in)
		plainTree, plainErr := Parse(g, in, WithoutMemo())

		if (memoErr == nil) != (plainErr == nil) {
			t.Errorf("%q: memo err %v, plain err %v", in, memoErr, plainErr)
			continue
		}
		if memoErr != nil {
			if memoErr.Error() != plainErr.Error() {
				t.Errorf("%q: errors differ:\n%s\nvs\n%s", in, memoErr, plainErr)
			}
			continue
		}
		if memoTree.Format() != plainTree.Format() {
			t.Errorf("%q: trees differ:\n%s\nvs\n%s", in, memoTree.Format(), plainTree.Format())
		}
	}
}

func TestMemoBoundsWork(t *testing.T) {
	// Every alternative starts with the same rule, which backtracking would
	// otherwise re-run for each one.
	g := load(t, `grammar G
  start <- item "+" start / item "-" start / item "*" start / item
  item  <- [a-z]+`)
	input := strings.Repeat("abc+", 20) + "abc"

	var memo, plain Stats
	if _, err := Parse(g, input, WithStats(&memo)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Parse(g, input, WithoutMemo(), WithStats(&plain)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bound := len(g.Rules) * (len([]rune(input)) + 1)
	if memo.Evaluations > bound {
		t.Errorf("memoised evaluations %d exceed %d", memo.Evaluations, bound)
	}
	if memo.MemoHits == 0 {
		t.Error("expected memo hits")
	}
	if plain.Evaluations <= memo.Evaluations {
		t.Errorf("memo should save work: %d vs %d evaluations", memo.Evaluations, plain.Evaluations)
	}
}

func TestMemoisedFailureIsReused(t *testing.T) {
	g := load(t, `grammar G
  start <- digits "x" / digits "y" / "z"
  digits <- [0-9]+`)
	var s Stats
	if _, err := Parse(g, "z", WithStats(&s)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// start once, digits once; the second digits call is a memoised failure
	if s.Evaluations != 2 || s.MemoHits != 1 {
		t.Errorf("stats = %+v", s)
	}
}
