package lox

// Result is what the pipeline hands back to a front-end for display.
type Result struct {
	Tokens []Token
	AST    *Block
}

// Compile lexes, parses and evaluates source. Lex and parse errors return
// no result at all; an evaluation error still returns the tokens and tree
// alongside the error.
func Compile(source string, cfg Config) (*Result, error) {
	tokens, err := NewLexerWithFilename(source, cfg.Filename).Lex()
	if err != nil {
		return nil, err
	}
	tree, err := NewParserWithConfig(tokens, cfg).Parse()
	if err != nil {
		return nil, err
	}
	res := &Result{Tokens: tokens, AST: tree}
	if err := NewInterpreter(cfg).Evaluate(tree); err != nil {
		return res, err
	}
	return res, nil
}
