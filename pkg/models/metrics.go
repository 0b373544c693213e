package models

import "fmt"

// Property is a labelled, pre-formatted summary value.
type Property struct {
	Label string `json:"label" msgpack:"label"`
	Value string `json:"value" msgpack:"value"`
}

// Counters are the decision-structure counters collected during one walk.
type Counters struct {
	StatementOperators int `json:"statement_operators" msgpack:"statement_operators"`
	DecisionCount      int `json:"decision_count" msgpack:"decision_count"`
	IfDepth            int `json:"if_depth" msgpack:"if_depth"`
	MaxIfDepth         int `json:"max_if_depth" msgpack:"max_if_depth"`
}

// DecisionDensity returns DecisionCount / StatementOperators, or 0 when
// no statement operators were counted.
func (c Counters) DecisionDensity() float64 {
	if c.StatementOperators == 0 {
		return 0
	}
	return float64(c.DecisionCount) / float64(c.StatementOperators)
}

// IdentifierSummary is the final state of one identifier in the use-graph.
type IdentifierSummary struct {
	Name        string      `json:"name" msgpack:"name"`
	Class       ChepinClass `json:"class" msgpack:"class"`
	Occurrences int         `json:"occurrences" msgpack:"occurrences"`
	UsedWith    []string    `json:"used_with,omitempty" msgpack:"used_with"`
}

// FileMetrics is the result of analyzing one program.
type FileMetrics struct {
	Path            string              `json:"path" msgpack:"path"`
	Language        string              `json:"language" msgpack:"language"`
	Operators       map[string]int      `json:"operators" msgpack:"operators"`
	Operands        map[string]int      `json:"operands" msgpack:"operands"`
	Identifiers     []IdentifierSummary `json:"identifiers" msgpack:"identifiers"`
	Chepin          ChepinGroups        `json:"chepin" msgpack:"chepin"`
	ChepinScore     float64             `json:"chepin_score" msgpack:"chepin_score"`
	Counters        Counters            `json:"counters" msgpack:"counters"`
	DecisionDensity float64             `json:"decision_density" msgpack:"decision_density"`
	Halstead        *HalsteadMetrics    `json:"halstead" msgpack:"halstead"`
	Properties      []Property          `json:"properties" msgpack:"properties"`
	Violations      []Violation         `json:"violations,omitempty" msgpack:"violations"`
}

// Property returns the value recorded under label.
func (m *FileMetrics) Property(label string) (string, bool) {
	for _, p := range m.Properties {
		if p.Label == label {
			return p.Value, true
		}
	}
	return "", false
}

// Thresholds are the limits above which a file is reported.
// A zero limit disables the check.
type Thresholds struct {
	MaxIfDepth      int     `json:"max_if_depth"`
	MaxIfSaturation float64 `json:"max_if_saturation"`
	MaxVolume       float64 `json:"max_volume"`
}

// DefaultThresholds returns sensible defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxIfDepth:      4,
		MaxIfSaturation: 0.5,
		MaxVolume:       8000,
	}
}

// ViolationSeverity indicates the severity of a threshold violation.
type ViolationSeverity string

const (
	SeverityWarning ViolationSeverity = "warning"
	SeverityError   ViolationSeverity = "error"
)

func (v ViolationSeverity) String() string { return string(v) }

// Violation represents a metric above its threshold.
type Violation struct {
	Severity  ViolationSeverity `json:"severity" msgpack:"severity"`
	Rule      string            `json:"rule" msgpack:"rule"`
	Message   string            `json:"message" msgpack:"message"`
	Value     float64           `json:"value" msgpack:"value"`
	Threshold float64           `json:"threshold" msgpack:"threshold"`
}

// CheckThresholds returns the violations of t in m. Values over twice the
// limit are reported as errors.
func (m *FileMetrics) CheckThresholds(t Thresholds) []Violation {
	var out []Violation
	check := func(rule string, value, limit float64, format string) {
		if limit <= 0 || value <= limit {
			return
		}
		sev := SeverityWarning
		if value > 2*limit {
			sev = SeverityError
		}
		out = append(out, Violation{
			Severity:  sev,
			Rule:      rule,
			Message:   fmt.Sprintf(format, value, limit),
			Value:     value,
			Threshold: limit,
		})
	}

	check("max-if-depth", float64(m.Counters.MaxIfDepth), float64(t.MaxIfDepth),
		"if nesting depth %.0f exceeds %.0f")
	check("if-saturation", m.DecisionDensity, t.MaxIfSaturation,
		"if saturation %.2f exceeds %.2f")
	if m.Halstead != nil {
		check("halstead-volume", m.Halstead.Volume, t.MaxVolume,
			"halstead volume %.1f exceeds %.1f")
	}
	return out
}

// ProjectMetrics is the result of analyzing a set of files.
type ProjectMetrics struct {
	Files   []FileMetrics  `json:"files"`
	Summary ProjectSummary `json:"summary"`
}

// ProjectSummary aggregates file metrics across a project.
type ProjectSummary struct {
	TotalFiles         int     `json:"total_files"`
	FailedFiles        int     `json:"failed_files"`
	StatementOperators int     `json:"statement_operators"`
	DecisionCount      int     `json:"decision_count"`
	MaxIfDepth         int     `json:"max_if_depth"`
	P50MaxIfDepth      float64 `json:"p50_max_if_depth"`
	P90MaxIfDepth      float64 `json:"p90_max_if_depth"`
	MeanVolume         float64 `json:"mean_volume"`
	StdDevVolume       float64 `json:"stddev_volume"`
	MeanIfSaturation   float64 `json:"mean_if_saturation"`
	ViolationCount     int     `json:"violation_count"`
}
