// Package cvssel selects, merges and scores CVSS vectors gathered from
// several sources for the same vulnerability.
//
// A finding usually carries more than one CVSS vector: the NVD publishes one,
// a vendor or GitHub advisory publishes another, an ADP enriches it and an
// internal assessment adjusts the environmental metrics. The engine picks and
// merges these candidates with two rule-driven selectors, producing a base
// vector (what the providers say) and an effective vector (what applies to
// the assessed environment). When candidates exist in several CVSS versions
// a version-selection policy chooses one.
//
// # Packages
//
//   - cvss: vector model, parsing, scoring for 2.0, 3.0, 3.1 and 4.0, score cache
//   - source: column headers and the entity registry used for source matching
//   - selector: the rule engine and its JSON/YAML documents
//   - resolve: cross-version resolution and batch processing
//   - severity: qualitative severity ranges
//   - config: engine configuration files
//
// # Getting Started
//
//	engine, err := cvssel.NewEngine(cvssel.WithConfigFile("cvssel.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	assessment, err := engine.Assess(ctx, []cvssel.Candidate{
//		{Source: "CVSS:3.1 NVD", Vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"},
//		{Source: "CVSS:3.1 Assessment", Vector: "CVSS:3.1/MAV:L"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(assessment.Effective.Vector, assessment.Severity.Name)
//
// Without a configuration file the engine uses the built-in selectors, the
// default entity registry and the LATEST policy.
//
// # Error Handling
//
// Engine operations return *Error values carrying an operation and a kind.
// Package sentinels stay reachable through errors.Is:
//
//	if errors.Is(err, cvssel.ErrNoCandidates) {
//		// nothing to assess
//	}
//	if errors.Is(err, &cvssel.Error{Kind: cvssel.KindEvaluation}) {
//		// a selector rule aborted the selection
//	}
//
// # Observability
//
// WithTracer and WithMeter wire OpenTelemetry into the selectors and the
// score cache. Logging uses log/slog.
package cvssel
