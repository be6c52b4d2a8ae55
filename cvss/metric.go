package cvss

// group classifies a metric by the score it contributes to.
type group int

const (
	groupBase group = iota
	groupTemporal
	groupEnvironmental
	groupSupplemental
)

// metric is one row of a version's static attribute table.
type metric struct {
	code string

	// values lists the accepted values ordered from least to most severe.
	values []string

	// undefined is the "not defined" marker; empty for mandatory base metrics.
	undefined string

	// rankAs is the value whose severity rank the undefined marker shares.
	rankAs string

	// inherits names the base metric a modified metric falls back to when
	// left undefined.
	inherits string

	group group
}

// ranked reports whether values of this metric carry a qualitative order.
func (m *metric) ranked() bool {
	return m.group != groupSupplemental
}

// accepts reports whether value is valid for the metric.
func (m *metric) accepts(value string) bool {
	if value == "" {
		return false
	}
	if m.undefined != "" && value == m.undefined {
		return true
	}
	return indexOf(m.values, value) >= 0
}

// defined reports whether value carries information beyond the undefined marker.
func (m *metric) defined(value string) bool {
	return value != "" && value != m.undefined
}

// schema is the static attribute table of one version.
type schema struct {
	version Version
	metrics []*metric
	byCode  map[string]*metric
}

func newSchema(version Version, metrics []*metric) *schema {
	s := &schema{
		version: version,
		metrics: metrics,
		byCode:  make(map[string]*metric, len(metrics)),
	}
	for _, m := range metrics {
		s.byCode[m.code] = m
	}
	return s
}

func (s *schema) lookup(code string) *metric {
	return s.byCode[code]
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}

func base(code string, values ...string) *metric {
	return &metric{code: code, values: values, group: groupBase}
}

func optional(g group, code, undefined, rankAs string, values ...string) *metric {
	return &metric{code: code, values: values, undefined: undefined, rankAs: rankAs, group: g}
}

func modified(code, inherits string, values ...string) *metric {
	return &metric{code: code, values: values, undefined: "X", inherits: inherits, group: groupEnvironmental}
}

var schemaV2 = newSchema(Version2, []*metric{
	base("AV", "L", "A", "N"),
	base("AC", "H", "M", "L"),
	base("Au", "M", "S", "N"),
	base("C", "N", "P", "C"),
	base("I", "N", "P", "C"),
	base("A", "N", "P", "C"),
	optional(groupTemporal, "E", "ND", "H", "U", "POC", "F", "H"),
	optional(groupTemporal, "RL", "ND", "U", "OF", "TF", "W", "U"),
	optional(groupTemporal, "RC", "ND", "C", "UC", "UR", "C"),
	optional(groupEnvironmental, "CDP", "ND", "N", "N", "L", "LM", "MH", "H"),
	optional(groupEnvironmental, "TD", "ND", "H", "N", "L", "M", "H"),
	optional(groupEnvironmental, "CR", "ND", "M", "L", "M", "H"),
	optional(groupEnvironmental, "IR", "ND", "M", "L", "M", "H"),
	optional(groupEnvironmental, "AR", "ND", "M", "L", "M", "H"),
})

func v3Metrics() []*metric {
	return []*metric{
		base("AV", "P", "L", "A", "N"),
		base("AC", "H", "L"),
		base("PR", "H", "L", "N"),
		base("UI", "R", "N"),
		base("S", "U", "C"),
		base("C", "N", "L", "H"),
		base("I", "N", "L", "H"),
		base("A", "N", "L", "H"),
		optional(groupTemporal, "E", "X", "H", "U", "P", "F", "H"),
		optional(groupTemporal, "RL", "X", "U", "O", "T", "W", "U"),
		optional(groupTemporal, "RC", "X", "C", "U", "R", "C"),
		optional(groupEnvironmental, "CR", "X", "M", "L", "M", "H"),
		optional(groupEnvironmental, "IR", "X", "M", "L", "M", "H"),
		optional(groupEnvironmental, "AR", "X", "M", "L", "M", "H"),
		modified("MAV", "AV", "P", "L", "A", "N"),
		modified("MAC", "AC", "H", "L"),
		modified("MPR", "PR", "H", "L", "N"),
		modified("MUI", "UI", "R", "N"),
		modified("MS", "S", "U", "C"),
		modified("MC", "C", "N", "L", "H"),
		modified("MI", "I", "N", "L", "H"),
		modified("MA", "A", "N", "L", "H"),
	}
}

var (
	schemaV30 = newSchema(Version30, v3Metrics())
	schemaV31 = newSchema(Version31, v3Metrics())
)

var schemaV40 = newSchema(Version40, []*metric{
	base("AV", "P", "L", "A", "N"),
	base("AC", "H", "L"),
	base("AT", "P", "N"),
	base("PR", "H", "L", "N"),
	base("UI", "A", "P", "N"),
	base("VC", "N", "L", "H"),
	base("VI", "N", "L", "H"),
	base("VA", "N", "L", "H"),
	base("SC", "N", "L", "H"),
	base("SI", "N", "L", "H"),
	base("SA", "N", "L", "H"),
	optional(groupTemporal, "E", "X", "A", "U", "P", "A"),
	optional(groupEnvironmental, "CR", "X", "H", "L", "M", "H"),
	optional(groupEnvironmental, "IR", "X", "H", "L", "M", "H"),
	optional(groupEnvironmental, "AR", "X", "H", "L", "M", "H"),
	modified("MAV", "AV", "P", "L", "A", "N"),
	modified("MAC", "AC", "H", "L"),
	modified("MAT", "AT", "P", "N"),
	modified("MPR", "PR", "H", "L", "N"),
	modified("MUI", "UI", "A", "P", "N"),
	modified("MVC", "VC", "N", "L", "H"),
	modified("MVI", "VI", "N", "L", "H"),
	modified("MVA", "VA", "N", "L", "H"),
	modified("MSC", "SC", "N", "L", "H"),
	modified("MSI", "SI", "N", "L", "H", "S"),
	modified("MSA", "SA", "N", "L", "H", "S"),
	optional(groupSupplemental, "S", "X", "", "N", "P"),
	optional(groupSupplemental, "AU", "X", "", "N", "Y"),
	optional(groupSupplemental, "R", "X", "", "A", "U", "I"),
	optional(groupSupplemental, "V", "X", "", "D", "C"),
	optional(groupSupplemental, "RE", "X", "", "L", "M", "H"),
	optional(groupSupplemental, "U", "X", "", "Clear", "Green", "Amber", "Red"),
})

func schemaFor(v Version) *schema {
	switch v {
	case Version2:
		return schemaV2
	case Version30:
		return schemaV30
	case Version31:
		return schemaV31
	case Version40:
		return schemaV40
	default:
		return nil
	}
}

// AttributeCodes returns the attribute codes of version v in declared order.
func AttributeCodes(v Version) []string {
	s := schemaFor(v)
	if s == nil {
		return nil
	}
	codes := make([]string, len(s.metrics))
	for i, m := range s.metrics {
		codes[i] = m.code
	}
	return codes
}
