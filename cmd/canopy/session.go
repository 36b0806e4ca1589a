package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/y8/canopy/internal/ast"
	"github.com/y8/canopy/internal/compiler"
	"github.com/y8/canopy/internal/formatter"
	"github.com/y8/canopy/internal/packrat"
	"github.com/y8/canopy/internal/parser"
	"github.com/y8/canopy/internal/testgen"
)

const replHelp = `Enter rule definitions (name <- expression) to add or replace rules.
The first rule defined is the root.

Commands:
  :parse <text>     Parse text with the current rules ("quoted" text may use escapes)
  :emit             Print the generated parser
  :sample [n]       Print n random inputs the rules accept
  :rules            List the current grammar
  :grammar <Name>   Rename the grammar (default Repl)
  :reset            Forget all rules
  :help             Show this message
  :quit             Leave the REPL
`

// session is the grammar built up interactively. Redefining a rule
// replaces it in place so the root stays first.
type session struct {
	name  string
	rules []*ast.Rule
}

func newSession() *session {
	return &session{name: "Repl"}
}

func (s *session) grammar() *ast.Grammar {
	return &ast.Grammar{Name: s.name, Rules: s.rules}
}

// source renders the session as a grammar file.
func (s *session) source() string {
	return ast.Print(s.grammar())
}

// eval runs one complete input: a command or rule definitions. It returns
// the text to show and whether the session should end.
func (s *session) eval(input string) (string, bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false, nil
	}
	if strings.HasPrefix(input, ":") {
		return s.command(input)
	}
	out, err := s.define(input)
	return out, false, err
}

func (s *session) command(input string) (string, bool, error) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return "", true, nil
	case ":help":
		return replHelp, false, nil
	case ":reset":
		s.rules = nil
		return "rules cleared\n", false, nil
	case ":grammar":
		if arg == "" {
			return "grammar " + s.name + "\n", false, nil
		}
		s.name = arg
		return "", false, nil
	case ":rules":
		if len(s.rules) == 0 {
			return "no rules defined\n", false, nil
		}
		return formatter.Format(s.grammar()), false, nil
	case ":emit":
		if len(s.rules) == 0 {
			return "", false, errors.New("no rules defined")
		}
		res := compiler.Compile(s.source())
		if res.Diagnostics.HasErrors() {
			return "", false, errors.New(strings.TrimRight(res.Diagnostics.Format("<repl>"), "\n"))
		}
		return res.Source, false, nil
	case ":parse":
		return s.parse(arg)
	case ":sample":
		return s.sample(arg)
	}
	return "", false, fmt.Errorf("unknown command %s (try :help)", cmd)
}

func (s *session) define(input string) (string, error) {
	p := parser.New(input)
	rules := p.ParseRules()
	if p.Diagnostics().HasErrors() {
		return "", errors.New(strings.TrimRight(p.Diagnostics().Format("<repl>"), "\n"))
	}

	var sb strings.Builder
	for _, r := range rules {
		replaced := false
		for i, old := range s.rules {
			if old.Name == r.Name {
				s.rules[i] = r
				replaced = true
				break
			}
		}
		if replaced {
			fmt.Fprintf(&sb, "redefined %s\n", r.Name)
			continue
		}
		s.rules = append(s.rules, r)
		fmt.Fprintf(&sb, "defined %s\n", r.Name)
	}
	return sb.String(), nil
}

func (s *session) parse(arg string) (string, bool, error) {
	if len(s.rules) == 0 {
		return "", false, errors.New("no rules defined")
	}
	text := arg
	if strings.HasPrefix(arg, `"`) {
		unquoted, err := strconv.Unquote(arg)
		if err != nil {
			return "", false, fmt.Errorf("bad quoted text: %w", err)
		}
		text = unquoted
	}

	g, diags := compiler.Load(s.source())
	if g == nil {
		return "", false, errors.New(strings.TrimRight(diags.Format("<repl>"), "\n"))
	}
	tree, err := packrat.Parse(g, text)
	if err != nil {
		return "", false, err
	}
	return tree.Format(), false, nil
}

func (s *session) sample(arg string) (string, bool, error) {
	count := testgen.DefaultCount
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return "", false, fmt.Errorf("bad sample count %q", arg)
		}
		count = n
	}
	if len(s.rules) == 0 {
		return "", false, errors.New("no rules defined")
	}
	g, diags := compiler.Load(s.source())
	if g == nil {
		return "", false, errors.New(strings.TrimRight(diags.Format("<repl>"), "\n"))
	}

	var sb strings.Builder
	for _, sample := range testgen.Samples(g, count, uint64(len(s.rules))) {
		sb.WriteString(strconv.Quote(sample) + "\n")
	}
	if sb.Len() == 0 {
		return "", false, errors.New("no samples found")
	}
	return sb.String(), false, nil
}
