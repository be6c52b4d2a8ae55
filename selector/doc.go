// Package selector implements the rule engine that picks and merges candidate
// vectors into one effective vector.
//
// A Selector owns an ordered list of rules. Each rule picks at most one
// candidate through its source selector, optionally vetoes it with vector
// evaluators, merges it into the running result with its merging method and
// records presence counters through stats collectors. After the last rule the
// selector's stats evaluators and post-selection vector evaluators decide
// whether the result stands.
//
// Selectors are built once from a Document (JSON or YAML) and are safe for
// concurrent use:
//
//	sel, err := selector.Load("base.yaml", selector.WithRegistry(source.DefaultRegistry()))
//	if err != nil {
//		return err
//	}
//	v, err := sel.Select(ctx, candidates)
//
// Candidates are never mutated; merges operate on clones.
package selector
