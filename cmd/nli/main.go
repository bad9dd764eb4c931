package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"nli-lang/impl/internal/evaluator"
	"nli-lang/impl/internal/lexer"
	"nli-lang/impl/internal/parser"
)

type options struct {
	expr     string
	haveExpr bool
	tokens   bool
	ast      bool
	raw      string
	repl     bool
	help     bool
	files    []string
}

func parseFlags(argv []string) (options, error) {
	o := options{raw: "yaml"}
	opts, optind, err := getopt.Getopts(argv, "ae:hir:t")
	if err != nil {
		return o, err
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'a':
			o.ast = true
		case 'e':
			o.expr, o.haveExpr = opt.Value, true
		case 'h':
			o.help = true
		case 'i':
			o.repl = true
		case 'r':
			switch opt.Value {
			case "yaml", "json", "none":
				o.raw = opt.Value
			default:
				return o, fmt.Errorf("unknown raw format %q (want yaml, json or none)", opt.Value)
			}
		case 't':
			o.tokens = true
		}
	}
	o.files = argv[optind:]
	return o, nil
}

func usage(w io.Writer, prog string) {
	fmt.Fprintf(w, `Usage: %s [-t|-a] [-r yaml|json|none] [-e expr | file]
       %s -i

  -e expr   evaluate expr instead of a file
  -t        print the token stream
  -a        print the parsed tree
  -r fmt    raw dump format of the result (default yaml)
  -i        interactive prompt (default when stdin is a terminal)
  -h        this help
`, filepath.Base(prog), filepath.Base(prog))
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintln(w, "[Error]", err)
}

func printTokens(w io.Writer, src string) error {
	toks, err := lexer.Lex(src)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, t := range toks {
		if err := enc.Encode(t); err != nil {
			return err
		}
	}
	return nil
}

func printAST(w io.Writer, src string) error {
	toks, err := lexer.Lex(src)
	if err != nil {
		return err
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(prog); err != nil {
		return err
	}
	return bw.Flush()
}

// encodeRaw prints the raw structural form of v in format, which must not
// be "none".
func encodeRaw(w io.Writer, format string, v evaluator.Value) error {
	node := evaluator.Dump(v)
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(node)
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// writeRaw prints the raw structural form of v followed by an empty line.
func writeRaw(w io.Writer, format string, v evaluator.Value) error {
	if format == "none" {
		return nil
	}
	if err := encodeRaw(w, format, v); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func runProgram(w io.Writer, src, raw string) error {
	v, err := evaluator.Interpret(src, hostEnv(w, raw))
	if err != nil {
		return err
	}
	if err := writeRaw(w, raw, v); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, evaluator.Format(v))
	return err
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func realMain(o options, stdin io.Reader, stdout, stderr io.Writer) int {
	if o.help {
		usage(stdout, "nli")
		return 0
	}

	var src string
	switch {
	case o.haveExpr:
		src = o.expr
	case len(o.files) > 0:
		data, err := os.ReadFile(o.files[0])
		if err != nil {
			printError(stderr, err)
			return 1
		}
		src = string(data)
	case o.repl || isTerminal(stdin):
		return repl(stdout, stderr, o.raw)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			printError(stderr, err)
			return 1
		}
		src = string(data)
	}

	var err error
	switch {
	case o.tokens:
		err = printTokens(stdout, src)
	case o.ast:
		err = printAST(stdout, src)
	default:
		err = runProgram(stdout, src, o.raw)
	}
	if err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("nli: ")

	o, err := parseFlags(os.Args)
	if err != nil {
		usage(os.Stderr, os.Args[0])
		log.Fatalln(err)
	}
	os.Exit(realMain(o, os.Stdin, os.Stdout, os.Stderr))
}
