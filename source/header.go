package source

import (
	"fmt"
	"strings"

	"github.com/zero-day-ai/cvssel/cvss"
)

const (
	partSeparator     = "-"
	combinedSeparator = " + "
)

// Escape prepares an entity name for embedding in a column header.
// Underscores become `\_` and dashes become underscores.
func Escape(name string) string {
	name = strings.ReplaceAll(name, "_", `\_`)
	return strings.ReplaceAll(name, "-", "_")
}

// Unescape reverses Escape.
func Unescape(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		switch {
		case name[i] == '\\' && i+1 < len(name) && name[i+1] == '_':
			b.WriteByte('_')
			i++
		case name[i] == '_':
			b.WriteByte('-')
		default:
			b.WriteByte(name[i])
		}
	}
	return b.String()
}

// FormatHeader renders src as "<Version> <Host>[-<Role>]-[<Issuer>]".
func FormatHeader(src cvss.Source) string {
	var b strings.Builder
	b.WriteString(src.Version().Prefix())
	b.WriteByte(' ')
	b.WriteString(Escape(src.Host()))

	switch {
	case src.Role() != "":
		b.WriteString(partSeparator + Escape(src.Role()) + partSeparator + Escape(src.Issuer()))
	case src.Issuer() != "":
		b.WriteString(partSeparator + Escape(src.Issuer()))
	}
	return b.String()
}

// ParseHeader decodes a header produced by FormatHeader. After the version,
// one part is the host, two parts are host and issuer, and three parts are
// host, role and issuer.
func ParseHeader(header string) (cvss.Source, error) {
	head, rest, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return cvss.Source{}, fmt.Errorf("%w: %q has no version", ErrInvalidHeader, header)
	}

	version, err := cvss.ParseVersion(head)
	if err != nil {
		return cvss.Source{}, fmt.Errorf("%w: %q: %w", ErrInvalidHeader, header, err)
	}

	parts := strings.Split(strings.TrimSpace(rest), partSeparator)
	for i := range parts {
		parts[i] = Unescape(strings.TrimSpace(parts[i]))
	}

	var host, role, issuer string
	switch len(parts) {
	case 1:
		host = parts[0]
	case 2:
		host, issuer = parts[0], parts[1]
	case 3:
		host, role, issuer = parts[0], parts[1], parts[2]
	default:
		return cvss.Source{}, fmt.Errorf("%w: %q has %d parts", ErrInvalidHeader, header, len(parts))
	}

	src, err := cvss.NewSource(version, host, role, issuer)
	if err != nil {
		return cvss.Source{}, fmt.Errorf("%w: %q: %w", ErrInvalidHeader, header, err)
	}
	return src, nil
}

// FormatCombinedHeader joins the headers of srcs with " + ".
func FormatCombinedHeader(srcs []cvss.Source) string {
	headers := make([]string, len(srcs))
	for i, src := range srcs {
		headers[i] = FormatHeader(src)
	}
	return strings.Join(headers, combinedSeparator)
}

// ParseCombinedHeader decodes a header produced by FormatCombinedHeader.
func ParseCombinedHeader(header string) ([]cvss.Source, error) {
	if strings.TrimSpace(header) == "" {
		return nil, nil
	}

	parts := strings.Split(header, combinedSeparator)
	srcs := make([]cvss.Source, 0, len(parts))
	for _, part := range parts {
		src, err := ParseHeader(part)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, src)
	}
	return srcs, nil
}
