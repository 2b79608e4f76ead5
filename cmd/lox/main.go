package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"github.com/oarkflow/lox"
)

const usage = `usage: lox [options] [file...]

Runs each file (or -e source, or standard input) through the lexer, parser
and evaluator.

options:
  -t          print the token list
  -a          print the canonical form of the syntax tree
  -j          print tokens and syntax tree as JSON
  -c FILE     load configuration from a YAML file
  -e SOURCE   run SOURCE instead of reading files
  -w N        number of workers when running several files
  -s          strict division (division by zero is an error)
  -h          show this help
`

type options struct {
	tokens bool
	ast    bool
	json   bool
	source string
	inline bool
}

var (
	errColor   = color.New(color.FgRed, color.Bold)
	kindColor  = color.New(color.FgCyan)
	titleColor = color.New(color.FgYellow)
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("lox: ")

	opts, optind, err := getopt.Getopts(os.Args, "taje:c:w:sh")
	if err != nil {
		log.Fatalln(err)
	}
	var o options
	var cfg lox.Config
	var workers, strict string
	for _, opt := range opts {
		switch opt.Option {
		case 't':
			o.tokens = true
		case 'a':
			o.ast = true
		case 'j':
			o.json = true
		case 'e':
			o.source = opt.Value
			o.inline = true
		case 'c':
			loaded, err := lox.LoadConfig(opt.Value)
			if err != nil {
				log.Fatalln(err)
			}
			cfg = loaded
		case 'w':
			workers = opt.Value
		case 's':
			strict = "on"
		case 'h':
			fmt.Print(usage)
			return
		}
	}
	// flags override the config file
	if workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil || n < 0 {
			log.Fatalln("invalid -w parameter")
		}
		cfg.Workers = n
	}
	if strict != "" {
		cfg.StrictDivision = true
	}

	files := os.Args[optind:]
	switch {
	case o.inline:
		cfg.Filename = "<arg>"
		os.Exit(runOne(o.source, cfg, o))
	case len(files) == 0:
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalln(err)
		}
		cfg.Filename = "<stdin>"
		os.Exit(runOne(string(src), cfg, o))
	case len(files) == 1:
		src, err := os.ReadFile(files[0])
		if err != nil {
			log.Fatalln(err)
		}
		cfg.Filename = files[0]
		os.Exit(runOne(string(src), cfg, o))
	default:
		os.Exit(runMany(files, cfg, o))
	}
}

func runOne(source string, cfg lox.Config, o options) int {
	cfg.Output = os.Stdout
	res, err := lox.Compile(source, cfg)
	if res != nil {
		display(res.Tokens, res.AST, o)
	}
	return report(err)
}

func runMany(files []string, cfg lox.Config, o options) int {
	results, err := lox.NewConcurrentRunner(cfg).RunFiles(context.Background(), files)
	if err != nil {
		log.Fatalln(err)
	}
	code := 0
	for _, r := range results {
		titleColor.Printf("==> %s <==\n", r.Filename)
		fmt.Print(r.Output)
		if r.AST != nil {
			display(r.Tokens, r.AST, o)
		}
		if c := report(r.Error); c > code {
			code = c
		}
	}
	return code
}

func display(tokens []lox.Token, tree *lox.Block, o options) {
	if o.tokens {
		titleColor.Println("tokens:")
		for _, t := range tokens {
			fmt.Printf("  %s %s %s\n", t.Pos, kindColor.Sprint(t.Type), t.Lexeme)
		}
	}
	if o.ast {
		titleColor.Println("ast:")
		fmt.Println(lox.MarshalAST(tree))
	}
	if o.json {
		data, err := lox.MarshalResultJSON(&lox.Result{Tokens: tokens, AST: tree})
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Println(string(data))
	}
}

// report prints err and maps it to an exit status: 65 for malformed input,
// 70 for runtime failures, following sysexits.
func report(err error) int {
	if err == nil {
		return 0
	}
	var lexErr *lox.LexError
	var parseErr *lox.ParseError
	switch {
	case errors.As(err, &lexErr):
		errColor.Fprintf(os.Stderr, "lex error: %v\n", err)
		return 65
	case errors.As(err, &parseErr):
		errColor.Fprintf(os.Stderr, "parse error: %v\n", err)
		return 65
	}
	errColor.Fprintf(os.Stderr, "runtime error: %v\n", err)
	return 70
}
