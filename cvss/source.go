package cvss

import "fmt"

// Well-known issuing entity roles.
const (
	RoleCNA = "CNA"
	RoleADP = "ADP"
)

// Source identifies who produced a vector: the hosting entity that published
// it, optionally the issuing entity and that entity's role, and the vector
// version the source speaks. Source is comparable; == is structural equality
// over all four fields. A Source is immutable once built.
type Source struct {
	version Version
	host    string
	role    string
	issuer  string
}

// NewSource builds a source. host is required; role and issuer may be empty.
func NewSource(version Version, host, role, issuer string) (Source, error) {
	if !version.Valid() {
		return Source{}, fmt.Errorf("%w: %d", ErrUnknownVersion, int(version))
	}
	if host == "" {
		return Source{}, ErrMissingHost
	}
	return Source{version: version, host: host, role: role, issuer: issuer}, nil
}

// MustSource is like NewSource but panics on error. Intended for static tables
// and tests.
func MustSource(version Version, host, role, issuer string) Source {
	src, err := NewSource(version, host, role, issuer)
	if err != nil {
		panic(err)
	}
	return src
}

// Version returns the vector version the source was declared for.
func (s Source) Version() Version { return s.version }

// Host returns the hosting entity name.
func (s Source) Host() string { return s.host }

// Role returns the issuing entity role, or "" when absent.
func (s Source) Role() string { return s.role }

// Issuer returns the issuing entity name, or "" when absent.
func (s Source) Issuer() string { return s.issuer }

// IsZero reports whether s is the zero Source.
func (s Source) IsZero() bool { return s == Source{} }

// WithVersion returns a copy of s declared for another version.
func (s Source) WithVersion(v Version) Source {
	s.version = v
	return s
}

// String returns a debug representation. Use source.FormatHeader for the
// column-header encoding.
func (s Source) String() string {
	out := s.version.Prefix() + " " + s.host
	if s.role != "" {
		out += "/" + s.role
	}
	if s.issuer != "" {
		out += "/" + s.issuer
	}
	return out
}
