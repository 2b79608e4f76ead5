package lox

// Environment maps names to values and is chained to its enclosing scope.
// Lookups and assignments walk outward and stop at the first match;
// declarations always land in the receiver.
type Environment struct {
	vars   map[string]any
	parent *Environment
}

func NewEnv(parent *Environment) *Environment {
	return &Environment{
		vars:   make(map[string]any),
		parent: parent,
	}
}

func (env *Environment) Parent() *Environment {
	return env.parent
}

// Declare binds name in this scope, overwriting any existing binding here.
func (env *Environment) Declare(name string, value any) {
	env.vars[name] = value
}

func (env *Environment) Lookup(name string) (any, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign mutates the nearest scope that already holds name. It reports
// false when no scope does.
func (env *Environment) Assign(name string, value any) bool {
	for e := env; e != nil; e = e.parent {
		if _, ok := e.vars[name]; ok {
			e.vars[name] = value
			return true
		}
	}
	return false
}

// Has reports whether name is bound directly in this scope.
func (env *Environment) Has(name string) bool {
	_, ok := env.vars[name]
	return ok
}
