package eval

import "github.com/mtnygard/eq/internal/value"

// Env is the lambda-parameter binding scope (spec.md §3.3): a chain of
// frames searched innermost-first, rooted at nil.
type Env struct {
	parent *Env
	vars   map[string]value.Value
}

// NewEnv creates a child scope of parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[string]value.Value)}
}

// Bind binds name to v in this frame.
func (e *Env) Bind(name string, v value.Value) {
	e.vars[name] = v
}

// Lookup searches this frame and its ancestors for name.
func (e *Env) Lookup(name string) (value.Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}
