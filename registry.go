package castkit

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps schema names to nodes. It is validated when constructed and
// never mutated afterwards, so it may be shared between goroutines.
type Registry struct {
	defs  map[string]Node
	names []string
}

// RegistryError reports definitions that cannot be used.
type RegistryError struct {
	Problems []string
}

func (e *RegistryError) Error() string {
	return "castkit: invalid registry: " + strings.Join(e.Problems, "; ")
}

// NewRegistry validates defs and returns an immutable Registry. Every
// reference reachable from a definition must resolve, and no reference cycle
// may pass only through unions and references (such a cycle never consumes
// input and would recurse forever).
func NewRegistry(defs map[string]Node) (*Registry, error) {
	r := &Registry{defs: make(map[string]Node, len(defs))}
	for name, n := range defs {
		r.defs[name] = n
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)

	var problems []string
	for _, name := range r.names {
		n := r.defs[name]
		if n == nil {
			problems = append(problems, fmt.Sprintf("%s: nil schema", name))
			continue
		}
		walk(n, func(ref string) {
			if _, ok := r.defs[ref]; !ok {
				problems = append(problems, fmt.Sprintf("%s: unresolved reference %q", name, ref))
			}
		})
	}
	if len(problems) == 0 {
		problems = append(problems, r.unproductiveCycles()...)
	}
	if len(problems) > 0 {
		return nil, &RegistryError{Problems: problems}
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(defs map[string]Node) *Registry {
	r, err := NewRegistry(defs)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the node registered under name.
func (r *Registry) Lookup(name string) (Node, bool) {
	if r == nil {
		return nil, false
	}
	n, ok := r.defs[name]
	return n, ok
}

// Names returns registered names in ascending order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

// walk visits every node below n and reports reference names.
func walk(n Node, onRef func(string)) {
	switch t := n.(type) {
	case *RefNode:
		onRef(t.Name)
	case *ArrayNode:
		walk(t.Elem, onRef)
	case *MapNode:
		walk(t.Elem, onRef)
	case *UnionNode:
		for _, m := range t.Members {
			walk(m, onRef)
		}
	case *ObjectNode:
		for _, f := range t.Fields {
			walk(f.Node, onRef)
		}
		if t.Additional != nil {
			walk(t.Additional, onRef)
		}
	case *PrimitiveNode, *LiteralNode, *EnumNode, *AnyNode, *DateNode:
	default:
		panic(fmt.Sprintf("castkit: unsupported node %T", n))
	}
}

// unproductiveCycles finds cycles among definitions whose edges follow only
// union members and references.
func (r *Registry) unproductiveCycles() []string {
	edges := make(map[string][]string, len(r.names))
	for _, name := range r.names {
		var out []string
		var visit func(Node)
		visit = func(n Node) {
			switch t := n.(type) {
			case *RefNode:
				out = append(out, t.Name)
			case *UnionNode:
				for _, m := range t.Members {
					visit(m)
				}
			}
		}
		visit(r.defs[name])
		edges[name] = out
	}

	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(r.names))
	var problems []string
	var dfs func(name string, stack []string)
	dfs = func(name string, stack []string) {
		state[name] = onStack
		stack = append(stack, name)
		for _, next := range edges[name] {
			switch state[next] {
			case onStack:
				i := indexOf(stack, next)
				cycle := append(append([]string(nil), stack[i:]...), next)
				problems = append(problems, "reference cycle without progress: "+strings.Join(cycle, " -> "))
			case unvisited:
				dfs(next, stack)
			}
		}
		state[name] = done
	}
	for _, name := range r.names {
		if state[name] == unvisited {
			dfs(name, nil)
		}
	}
	return problems
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
