package source

import "sync"

// Well-known entity names seeded into the default registry.
const (
	NVD        = "NVD"
	GHSA       = "GHSA"
	MSRC       = "MSRC"
	CERTSEI    = "CERT-SEI"
	Assessment = "Assessment"
)

var defaultDefinitions = []Definition{
	{Key: "nist", Name: "NIST", URL: "https://www.nist.gov", Country: "US"},
	{Key: "nvd", Name: NVD, Email: "nvd@nist.gov", URL: "https://nvd.nist.gov", Country: "US", Root: "nist", TopLevelRoot: "nist"},
	{Key: "github", Name: "GitHub, Inc.", URL: "https://github.com", Country: "US", Role: "CNA"},
	{Key: "ghsa", Name: GHSA, URL: "https://github.com/advisories", Country: "US", Root: "github", TopLevelRoot: "github"},
	{Key: "microsoft", Name: "Microsoft Corporation", URL: "https://www.microsoft.com", Country: "US", Role: "CNA"},
	{Key: "msrc", Name: MSRC, Email: "secure@microsoft.com", URL: "https://msrc.microsoft.com", Country: "US", Root: "microsoft", TopLevelRoot: "microsoft"},
	{Key: "cmu", Name: "Carnegie Mellon University", URL: "https://www.cmu.edu", Country: "US"},
	{Key: "cert-sei", Name: CERTSEI, Email: "cert@cert.org", URL: "https://www.kb.cert.org", Country: "US", Role: "CNA", Root: "cmu", TopLevelRoot: "cmu"},
	{Key: "mitre", Name: "MITRE", URL: "https://www.cve.org", Country: "US", Role: "CNA"},
	{Key: "cisa", Name: "CISA", URL: "https://www.cisa.gov", Country: "US", Role: "ADP"},
	{Key: "assessment", Name: Assessment},
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns a registry seeded with well-known vector hosts and
// their parent organisations.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		reg, err := NewRegistry(defaultDefinitions)
		if err != nil {
			panic("source: invalid default registry: " + err.Error())
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// DefaultDefinitions returns a copy of the definitions behind DefaultRegistry,
// for callers that extend the default catalog.
func DefaultDefinitions() []Definition {
	out := make([]Definition, len(defaultDefinitions))
	copy(out, defaultDefinitions)
	return out
}
