package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/TpouHuK/halstead-js/pkg/models"
)

// ReportOptions control how much of each file is rendered in text and
// markdown. Structured formats always carry everything.
type ReportOptions struct {
	Tallies    bool // operator and operand tables
	MaxTallies int  // rows per tally table, 0 = all
}

// MetricsReport renders project metrics.
type MetricsReport struct {
	metrics *models.ProjectMetrics
	report  *Report
}

// NewMetricsReport builds the report for pm.
func NewMetricsReport(pm *models.ProjectMetrics, opts ReportOptions) *MetricsReport {
	r := &Report{Title: "Halstead / Djilb / Chepin metrics", Data: pm}
	for i := range pm.Files {
		r.Sections = append(r.Sections, fileSection(&pm.Files[i], opts))
	}
	if len(pm.Files) > 1 {
		r.Sections = append(r.Sections, summarySection(pm.Summary))
	}
	return &MetricsReport{metrics: pm, report: r}
}

func (m *MetricsReport) RenderData() any { return m.metrics }

func (m *MetricsReport) RenderText(w io.Writer, colored bool) error {
	return m.report.RenderText(w, colored)
}

func (m *MetricsReport) RenderMarkdown(w io.Writer) error {
	return m.report.RenderMarkdown(w)
}

func fileSection(fm *models.FileMetrics, opts ReportOptions) *Section {
	s := &Section{Title: fm.Path, Data: fm}
	if fm.Language != "" {
		s.Lines = append(s.Lines, "Language: "+fm.Language)
	}

	s.Parts = append(s.Parts, PropertiesTable(fm), HalsteadTable(fm.Halstead), ChepinTable(fm.Chepin))
	if opts.Tallies {
		s.Parts = append(s.Parts,
			TallyTable("Operators", fm.Operators, opts.MaxTallies),
			TallyTable("Operands", fm.Operands, opts.MaxTallies))
	}
	if len(fm.Violations) > 0 {
		s.Parts = append(s.Parts, &violationList{violations: fm.Violations})
	}
	return s
}

// PropertiesTable lists the labelled summary values in their fixed order.
func PropertiesTable(fm *models.FileMetrics) *Table {
	rows := make([][]string, len(fm.Properties))
	for i, p := range fm.Properties {
		rows[i] = []string{p.Label, p.Value}
	}
	return NewTable("Properties", []string{"Property", "Value"}, rows, nil, fm.Properties)
}

// HalsteadTable lists the plain Halstead measures.
func HalsteadTable(h *models.HalsteadMetrics) *Table {
	if h == nil {
		h = &models.HalsteadMetrics{}
	}
	rows := [][]string{
		{"Unique operators (n1)", strconv.Itoa(int(h.OperatorsUnique))},
		{"Unique operands (n2)", strconv.Itoa(int(h.OperandsUnique))},
		{"Total operators (N1)", strconv.Itoa(int(h.OperatorsTotal))},
		{"Total operands (N2)", strconv.Itoa(int(h.OperandsTotal))},
		{"Vocabulary (n)", strconv.Itoa(int(h.Vocabulary))},
		{"Length (N)", strconv.Itoa(int(h.Length))},
		{"Volume (V)", formatFloat(h.Volume)},
		{"Difficulty (D)", formatFloat(h.Difficulty)},
		{"Effort (E)", formatFloat(h.Effort)},
	}
	return NewTable("Halstead", []string{"Measure", "Value"}, rows, nil, h)
}

// ChepinTable lists the four Chepin groups and the weighted score.
func ChepinTable(g models.ChepinGroups) *Table {
	classes := []models.ChepinClass{
		models.ChepinPredicate,
		models.ChepinModified,
		models.ChepinControl,
		models.ChepinTransient,
	}
	rows := make([][]string, 0, len(classes))
	for _, c := range classes {
		names := g.Group(c)
		rows = append(rows, []string{c.Letter(), strconv.Itoa(len(names)), strings.Join(names, ", ")})
	}
	footer := []string{"Q", formatFloat(g.Score()), ""}
	return NewTable("Chepin", []string{"Group", "Count", "Identifiers"}, rows, footer, g)
}

// TallyTable lists token counts, most frequent first. Ties are ordered by
// token text. limit > 0 truncates the rows.
func TallyTable(title string, tally map[string]int, limit int) *Table {
	rows := SortedTally(tally)
	total := 0
	for _, e := range rows {
		total += e.Count
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	cells := make([][]string, len(rows))
	for i, e := range rows {
		cells[i] = []string{e.Token, strconv.Itoa(e.Count)}
	}
	footer := []string{fmt.Sprintf("%d distinct", len(tally)), strconv.Itoa(total)}
	return NewTable(title, []string{"Token", "Count"}, cells, footer, tally)
}

// TallyEntry is one token and its count.
type TallyEntry struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// SortedTally orders a tally by descending count, then token.
func SortedTally(tally map[string]int) []TallyEntry {
	out := make([]TallyEntry, 0, len(tally))
	for tok, n := range tally {
		out = append(out, TallyEntry{Token: tok, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	return out
}

func summarySection(s models.ProjectSummary) *Section {
	return &Section{
		Title: "Summary",
		Data:  s,
		Lines: []string{
			fmt.Sprintf("Files: %d analyzed, %d failed", s.TotalFiles, s.FailedFiles),
			fmt.Sprintf("Program statements: %d", s.StatementOperators),
			fmt.Sprintf("Decisions: %d (mean saturation %s)", s.DecisionCount, formatFloat(s.MeanIfSaturation)),
			fmt.Sprintf("Max if depth: %d (p50 %s, p90 %s)", s.MaxIfDepth,
				formatFloat(s.P50MaxIfDepth), formatFloat(s.P90MaxIfDepth)),
			fmt.Sprintf("Volume: mean %s, stddev %s", formatFloat(s.MeanVolume), formatFloat(s.StdDevVolume)),
			fmt.Sprintf("Threshold violations: %d", s.ViolationCount),
		},
	}
}

type violationList struct {
	violations []models.Violation
}

func (v *violationList) RenderData() any { return v.violations }

func (v *violationList) RenderText(w io.Writer, colored bool) error {
	heading(w, "Violations", "-", colored)
	for _, vi := range v.violations {
		sev := strings.ToUpper(vi.Severity.String())
		if colored {
			sev = SeverityColor(vi.Severity.String(), sev)
		}
		fmt.Fprintf(w, "%s [%s] %s\n", sev, vi.Rule, vi.Message)
	}
	fmt.Fprintln(w)
	return nil
}

func (v *violationList) RenderMarkdown(w io.Writer) error {
	fmt.Fprint(w, "### Violations\n\n")
	for _, vi := range v.violations {
		fmt.Fprintf(w, "- **%s** `%s`: %s\n", vi.Severity, vi.Rule, vi.Message)
	}
	fmt.Fprintln(w)
	return nil
}

// formatFloat rounds to two decimals and drops trailing zeros.
func formatFloat(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
