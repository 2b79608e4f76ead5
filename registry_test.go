package lox

import (
	"bytes"
	"errors"
	"sort"
	"sync"
	"testing"
)

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()

	upper := func(args ...any) (any, error) {
		s, ok := args[0].(string)
		if !ok {
			return nil, ErrTypeError
		}
		return s + "!", nil
	}
	if err := registry.Register("shout", 1, upper); err != nil {
		t.Fatalf("Failed to register function: %v", err)
	}

	fn, ok := registry.Lookup("shout")
	if !ok {
		t.Fatal("Function not found in registry")
	}
	if fn.Arity() != 1 || fn.String() != "native fn <shout>" {
		t.Errorf("registered function = %s/%d", fn, fn.Arity())
	}
	result, err := fn.Call(nil, []any{"hey"})
	if err != nil {
		t.Fatalf("Function execution failed: %v", err)
	}
	if result != "hey!" {
		t.Errorf("Expected 'hey!', got %v", result)
	}

	if _, ok := registry.Lookup("Shout"); ok {
		t.Errorf("lookup is not case sensitive")
	}

	tests := []struct {
		name  string
		fname string
		arity int
		fn    NativeFunc
	}{
		{"duplicate", "shout", 1, upper},
		{"empty name", "", 0, upper},
		{"nil function", "none", 0, nil},
		{"negative arity", "neg", -1, upper},
		{"keyword name", "print", 1, upper},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := registry.Register(tt.fname, tt.arity, tt.fn); err == nil {
				t.Errorf("Register(%q) succeeded", tt.fname)
			}
		})
	}

	if err := registry.Register("zero", 0, func(args ...any) (any, error) { return 0.0, nil }); err != nil {
		t.Fatal(err)
	}
	names := registry.List()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "shout" || names[1] != "zero" {
		t.Errorf("List() = %v", names)
	}

	registry.Clear()
	if len(registry.List()) != 0 {
		t.Errorf("Clear() left %v", registry.List())
	}
}

func TestGlobalRegistry(t *testing.T) {
	ClearFunctions()
	t.Cleanup(ClearFunctions)

	if err := RegisterFunction("answer", 0, func(args ...any) (any, error) { return 42.0, nil }); err != nil {
		t.Fatal(err)
	}
	if _, ok := LookupFunction("answer"); !ok {
		t.Fatal("LookupFunction(answer) = false")
	}

	// an interpreter without its own registry binds the global one
	in := NewInterpreter(Config{Output: &bytes.Buffer{}})
	if !in.Globals().Has("answer") {
		t.Errorf("global native not bound")
	}
	v, err := in.Run(mustParse(t, "answer() + 1;"))
	if err != nil || v != 43.0 {
		t.Errorf("answer() + 1 = %v, %v", v, err)
	}

	private := NewInterpreter(Config{Registry: NewFunctionRegistry()})
	if private.Globals().Has("answer") {
		t.Errorf("private registry saw a global native")
	}
}

func TestFunctionRegistryConcurrency(t *testing.T) {
	registry := NewFunctionRegistry()
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i))
			if err := registry.Register(name, 0, func(args ...any) (any, error) { return nil, nil }); err != nil {
				errs <- err
				return
			}
			NewInterpreter(Config{Registry: registry})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if n := len(registry.List()); n != 20 {
		t.Errorf("registered %d functions, want 20", n)
	}
}

func TestProgramCache(t *testing.T) {
	cache := NewProgramCache()
	source := "var a = 1; print a;"

	if cache.Key(source) != cache.Key(source) {
		t.Errorf("Key is not deterministic")
	}
	if cache.Key(source) == cache.Key(source+" ") {
		t.Errorf("different sources share a key")
	}

	first, err := cache.Load(source, Config{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := cache.Load(source, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("second Load() reparsed the source")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
	if got, ok := cache.Get(source); !ok || got != first {
		t.Errorf("Get() = %v, %v", got, ok)
	}

	if _, err := cache.Load("print (;", Config{Filename: "bad.lox"}); !errors.Is(err, ErrUnexpectedToken) {
		t.Errorf("Load(bad) error = %v", err)
	}
	if _, err := cache.Load("print @;", Config{}); !errors.Is(err, ErrUnexpectedChar) {
		t.Errorf("Load(bad) error = %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("failed loads were cached: Len() = %d", cache.Len())
	}

	cache.Set("manual", &CachedProgram{AST: &Block{}})
	if cache.Len() != 2 {
		t.Errorf("Set() did not store")
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear() left %d entries", cache.Len())
	}
}

func TestCachedProgramSharedAcrossRuns(t *testing.T) {
	cache := NewProgramCache()
	prog, err := cache.Load("var n = 0; n = n + 1; print n;", Config{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		got, err := runTree(prog.AST)
		if err != nil {
			t.Fatal(err)
		}
		if got != "1\n" {
			t.Errorf("run %d printed %q; runs leaked state", i, got)
		}
	}
}

func runTree(tree *Block) (string, error) {
	var out bytes.Buffer
	err := NewInterpreter(Config{Output: &out, Registry: NewFunctionRegistry()}).Evaluate(tree)
	return out.String(), err
}
