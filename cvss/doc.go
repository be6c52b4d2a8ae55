// Package cvss provides the versioned severity vector model used by the
// selection engine.
//
// A Vector is a tagged variant over the supported CVSS versions (2.0, 3.0,
// 3.1 and 4.0). Each version owns a static metric table, iterated in the
// version's declared order, that drives parsing, canonical encoding,
// completion and the qualitative severity ranking of attribute values.
//
// # Parsing
//
//	v, err := cvss.ParseStrict("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H")
//	if err != nil {
//		return err
//	}
//	fmt.Println(v.BaseScore()) // 9.8
//
// ParseTolerant skips unrecognized tokens and logs them instead of failing.
//
// # Scores
//
// Score accessors are pure functions of the current attributes. An accessor
// that is not defined for a version, or a vector whose base metrics are
// incomplete, yields NaN.
//
// # Baking
//
// A Baked snapshot holds every derivable score for one canonical vector
// string. Snapshots are memoized in a bounded, concurrency-safe LRU Cache.
// Default returns the process-wide cache shared by all selectors.
//
// # Concurrency
//
// Vector values are not safe for concurrent use. Clone a vector before handing
// it to another goroutine or before using it as a merge input. Cache is safe
// for concurrent use.
package cvss
