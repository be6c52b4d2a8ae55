package cvss

import (
	"fmt"
	"strings"
)

// Version identifies a CVSS scoring standard version.
type Version int

const (
	// VersionUnknown is the zero Version and never produced by parsing.
	VersionUnknown Version = iota

	// Version2 is CVSS 2.0.
	Version2

	// Version30 is CVSS 3.0.
	Version30

	// Version31 is CVSS 3.1.
	Version31

	// Version40 is CVSS 4.0.
	Version40
)

// prefixPrefix starts every canonical vector string.
const prefixPrefix = "CVSS:"

var versionNames = map[Version]string{
	Version2:  "2.0",
	Version30: "3.0",
	Version31: "3.1",
	Version40: "4.0",
}

// Versions returns all supported versions, oldest first.
func Versions() []Version {
	return []Version{Version2, Version30, Version31, Version40}
}

// Valid reports whether v is a supported version.
func (v Version) Valid() bool {
	_, ok := versionNames[v]
	return ok
}

// String returns the dotted version number ("3.1").
func (v Version) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return "unknown"
}

// Prefix returns the canonical vector prefix ("CVSS:3.1").
func (v Version) Prefix() string {
	return prefixPrefix + v.String()
}

// Class returns the major version (2, 3 or 4). Versions of the same class
// share a metric vocabulary and may be merged with each other.
func (v Version) Class() int {
	switch v {
	case Version2:
		return 2
	case Version30, Version31:
		return 3
	case Version40:
		return 4
	default:
		return 0
	}
}

// SameClass reports whether v and other belong to the same version class.
func (v Version) SameClass(other Version) bool {
	return v.Class() != 0 && v.Class() == other.Class()
}

// MarshalText encodes the version as its dotted number.
func (v Version) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, ErrUnknownVersion
	}
	return []byte(v.String()), nil
}

// UnmarshalText accepts the forms understood by ParseVersion.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVersion parses "3.1", "CVSS:3.1", "v3.1" or "CVSS3.1" (case-insensitive).
// The bare major numbers "2" and "4" are accepted as well; "3" is ambiguous
// and resolves to 3.1.
func ParseVersion(s string) (Version, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.TrimPrefix(norm, "CVSS")
	norm = strings.TrimPrefix(norm, ":")
	norm = strings.TrimPrefix(norm, "V")
	norm = strings.TrimSpace(norm)

	switch norm {
	case "2", "2.0":
		return Version2, nil
	case "3.0":
		return Version30, nil
	case "3", "3.1":
		return Version31, nil
	case "4", "4.0":
		return Version40, nil
	}
	return VersionUnknown, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
}

// splitPrefix separates the version prefix from the attribute part of text.
// Text without a "CVSS:" prefix is treated as an NVD style 2.0 vector, which
// may be wrapped in parentheses.
func splitPrefix(text string) (Version, string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(strings.TrimPrefix(text, "("), ")")

	if !strings.HasPrefix(text, prefixPrefix) {
		return Version2, text, nil
	}

	head, rest, _ := strings.Cut(text, "/")
	switch strings.TrimPrefix(head, prefixPrefix) {
	case "2.0":
		return Version2, rest, nil
	case "3.0":
		return Version30, rest, nil
	case "3.1":
		return Version31, rest, nil
	case "4.0":
		return Version40, rest, nil
	}
	return VersionUnknown, "", fmt.Errorf("%w: %q", ErrUnknownVersion, head)
}
