package evaluator

// Env is a persistent chain of bindings. Extending an environment never
// touches the parent, so closures sharing a captured Env cannot observe each
// other's calls.
type Env struct {
	store map[string]Value
	outer *Env
}

func NewEnv(outer *Env) *Env { return &Env{store: map[string]Value{}, outer: outer} }

// Define binds name in e itself. It is meant for building the initial
// environment before evaluation starts.
func (e *Env) Define(name string, v Value) { e.store[name] = v }

// Extend returns a child of e holding the single binding name = v.
func (e *Env) Extend(name string, v Value) *Env {
	child := NewEnv(e)
	child.store[name] = v
	return child
}

// Get looks name up through the chain.
func (e *Env) Get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.outer {
		if v, ok := cur.store[name]; ok {
			return v, true
		}
	}
	return nil, false
}
