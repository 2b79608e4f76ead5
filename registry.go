package lox

import (
	"fmt"
	"sync"

	"github.com/zeebo/blake3"
)

// FunctionRegistry manages native functions in a thread-safe manner
type FunctionRegistry struct {
	mu    sync.RWMutex
	funcs map[string]*NativeFunction
}

// NewFunctionRegistry creates a new function registry
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		funcs: make(map[string]*NativeFunction),
	}
}

// Register adds a native function taking exactly arity arguments.
func (r *FunctionRegistry) Register(name string, arity int, fn NativeFunc) error {
	if name == "" {
		return fmt.Errorf("function name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("function cannot be nil")
	}
	if arity < 0 {
		return fmt.Errorf("function %s: arity must not be negative", name)
	}
	if _, ok := keywords[name]; ok {
		return fmt.Errorf("function name %s is a keyword", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("function %s already registered", name)
	}
	r.funcs[name] = &NativeFunction{Name: name, Params: arity, Fn: fn}
	return nil
}

// Lookup retrieves a function from the registry
func (r *FunctionRegistry) Lookup(name string) (*NativeFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]
	return fn, ok
}

// List returns all registered function names
func (r *FunctionRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	return names
}

// Clear removes all registered functions
func (r *FunctionRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.funcs = make(map[string]*NativeFunction)
}

// bind declares every registered function in env.
func (r *FunctionRegistry) bind(env *Environment) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, fn := range r.funcs {
		env.Declare(name, fn)
	}
}

// Global registry instance
var globalRegistry = NewFunctionRegistry()

// RegisterFunction registers a function in the global registry
func RegisterFunction(name string, arity int, fn NativeFunc) error {
	return globalRegistry.Register(name, arity, fn)
}

// LookupFunction looks up a function in the global registry
func LookupFunction(name string) (*NativeFunction, bool) {
	return globalRegistry.Lookup(name)
}

// ClearFunctions clears all functions from the global registry
func ClearFunctions() {
	globalRegistry.Clear()
}

// CachedProgram is a lexed and parsed source. Trees are never mutated after
// parsing, so one entry can back any number of runs.
type CachedProgram struct {
	Tokens []Token
	AST    *Block
}

// ProgramCache maps source digests to parsed programs in a thread-safe manner
type ProgramCache struct {
	mu    sync.RWMutex
	cache map[[32]byte]*CachedProgram
}

// NewProgramCache creates a new program cache
func NewProgramCache() *ProgramCache {
	return &ProgramCache{
		cache: make(map[[32]byte]*CachedProgram),
	}
}

// Key returns the digest under which source is cached.
func (c *ProgramCache) Key(source string) [32]byte {
	return blake3.Sum256([]byte(source))
}

// Get retrieves a program from the cache
func (c *ProgramCache) Get(source string) (*CachedProgram, bool) {
	key := c.Key(source)
	c.mu.RLock()
	defer c.mu.RUnlock()

	prog, ok := c.cache[key]
	return prog, ok
}

// Set stores a program in the cache
func (c *ProgramCache) Set(source string, prog *CachedProgram) {
	key := c.Key(source)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = prog
}

// Len returns the number of cached programs
func (c *ProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.cache)
}

// Clear removes all cached programs
func (c *ProgramCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[[32]byte]*CachedProgram)
}

// Load returns the cached program for source, lexing and parsing it on a
// miss. Failed parses are not cached.
func (c *ProgramCache) Load(source string, cfg Config) (*CachedProgram, error) {
	if prog, ok := c.Get(source); ok {
		return prog, nil
	}
	tokens, err := NewLexerWithFilename(source, cfg.Filename).Lex()
	if err != nil {
		return nil, err
	}
	tree, err := NewParserWithConfig(tokens, cfg).Parse()
	if err != nil {
		return nil, err
	}
	prog := &CachedProgram{Tokens: tokens, AST: tree}
	c.Set(source, prog)
	return prog, nil
}
