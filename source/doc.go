// Package source encodes vector provenance and catalogs the entities that
// publish vectors.
//
// # Column headers
//
// A cvss.Source is rendered as a column header of the form
//
//	<Version> <Host>[-<Role>]-[<Issuer>]
//
// for example "CVSS:3.1 NVD", "CVSS:3.1 NVD-GitHub" or "CVSS:3.1 NVD-CNA-GitHub".
// Entity names containing the separator are escaped with Escape. Several
// sources combine with " + ".
//
// # Registry
//
// A Registry is an immutable catalog of entities loaded from YAML or JSON.
// Entities may declare a parent (root) and a top-level root, which the
// selector uses for hierarchical source matching: a rule that names "NIST"
// also matches vectors hosted by "NVD" when NVD declares NIST as its root.
// Parent references are resolved in topological order at load time; a
// missing parent or a cycle fails the load.
package source
