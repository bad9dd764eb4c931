package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"nli-lang/impl/internal/evaluator"
	"nli-lang/impl/internal/lexer"
	"nli-lang/impl/internal/parser"
)

const (
	historyFile = ".nli_history"
	promptMain  = "nli> "
	promptCont  = "...  "
)

var resultColor = color.New(color.FgCyan)

func historyPath() string {
	if p := os.Getenv("NLI_HISTORY"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

// needsMore reports whether src only fails because it stops too early.
func needsMore(src string) bool {
	toks, err := lexer.Lex(src)
	if err == nil {
		_, err = parser.Parse(toks)
	}
	return err != nil && parser.IsIncomplete(err)
}

// readProgram prompts until the collected lines form a complete program or
// fail for another reason. ok is false at end of input.
func readProgram(ln *liner.State) (src string, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMore(b.String()) {
			return b.String(), true
		}
	}
}

func repl(stdout, stderr io.Writer, raw string) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	hist := historyPath()
	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(hist); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintln(stdout, "nli: Ctrl+C cancels input, Ctrl+D or :quit exits.")
	env := hostEnv(stdout, raw)
	for {
		src, ok := readProgram(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return 0
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		v, err := evaluator.Interpret(src, env)
		if err != nil {
			printError(stderr, err)
			continue
		}
		resultColor.Fprintln(stdout, evaluator.Format(v))
	}
}
