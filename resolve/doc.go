// Package resolve collapses the candidates of one finding into a single
// base and effective vector across CVSS versions.
//
// For each role (base, effective) and each version class present among the
// candidates, the role's selector runs over the candidates of that class. A
// version-selection Policy then picks one class per role:
//
//	r := resolve.New(selector.DefaultBaseSelector(), selector.DefaultEffectiveSelector(),
//		resolve.WithPolicy(resolve.MustParsePolicy("V3,LATEST")))
//	res, err := r.Resolve(ctx, candidates)
//
// Batch resolves many findings in parallel, sharing one Resolver and one
// score cache.
package resolve
