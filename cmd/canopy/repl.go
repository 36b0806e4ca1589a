package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/y8/canopy/internal/parser"
)

const (
	historyFile = ".canopy_history"
	promptMain  = "peg> "
	promptCont  = "...> "
	banner      = "canopy repl. Define rules, then :parse text. :help for commands."
)

func runRepl() (ret int) {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := newSession()
	for {
		input, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		out, quit, err := s.eval(input)
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Print(out)
		if quit {
			return 0
		}
	}

	return 0
}

// readByParseProbe keeps reading lines while the rules typed so far are
// incomplete, e.g. an open parenthesis or a rule with no body yet.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !needsMore(src) {
			return src, true
		}
	}
}

// needsMore reports whether src is a rule definition cut off before its
// end. Commands are always a single line.
func needsMore(src string) bool {
	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		return false
	}
	p := parser.New(src)
	p.ParseRules()
	return p.Diagnostics().IsIncomplete()
}
