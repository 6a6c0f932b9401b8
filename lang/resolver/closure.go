package resolver

import "golang.org/x/exp/slices"

// Capture records that the function scope owning it reads a variable
// declared in an enclosing function's scope, and how many function
// boundaries separate the use from the declaration (1 = immediate parent).
// The emitter does not lower captures: lang/compiler reports a diagnostic
// for any local read across a function boundary.
type Capture struct {
	Declaration DeclarationId
	Depth       int
}

// Use resolves name starting in scope for a read (as opposed to Declare),
// and additionally reports whether the binding lives in an enclosing
// function's scope rather than the current one, recording a Capture on
// that function scope the first time it is crossed. Grounded in the
// teacher's resolver.go use(), which walks r.env checking
// "env.fn != startFn" to detect a closure crossing and promote the
// binding's Scope from Local to Cell; Vellum's register machine has no
// Cell, so the promotion recorded here is a Capture depth instead.
func (r *Resolver) Use(scope ScopeId, name string) (DeclarationId, bool) {
	startFuncScope := r.enclosingFunction(scope)
	depth := 0
	cur := scope
	for {
		if id, ok := r.byName.Get(declarationKey{Scope: cur, Name: name}); ok {
			curFunc := r.enclosingFunction(cur)
			if curFunc != startFuncScope {
				r.recordCapture(startFuncScope, id, depth)
			}
			return id, true
		}
		sc := r.scopes[cur]
		if sc.Kind == ScopeFunction {
			depth++
		}
		if !sc.hasParent {
			break
		}
		cur = sc.Parent
	}
	if id, ok := r.byName.Get(declarationKey{Scope: GlobalScope, Name: name}); ok {
		return id, true
	}
	return 0, false
}

func (r *Resolver) enclosingFunction(scope ScopeId) ScopeId {
	for {
		sc := r.scopes[scope]
		if sc.Kind == ScopeFunction {
			return scope
		}
		if !sc.hasParent {
			return scope
		}
		scope = sc.Parent
	}
}

func (r *Resolver) recordCapture(funcScope ScopeId, decl DeclarationId, depth int) {
	if r.captures == nil {
		r.captures = make(map[ScopeId][]Capture)
	}
	if slices.ContainsFunc(r.captures[funcScope], func(c Capture) bool { return c.Declaration == decl }) {
		return
	}
	r.captures[funcScope] = append(r.captures[funcScope], Capture{Declaration: decl, Depth: depth})
}

// Captures returns the set of outer-scope variables the function scope
// funcScope reads, in first-use order.
func (r *Resolver) Captures(funcScope ScopeId) []Capture { return r.captures[funcScope] }
