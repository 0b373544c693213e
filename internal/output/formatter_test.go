package output

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/TpouHuK/halstead-js/pkg/analyzer/metrics"
	"github.com/TpouHuK/halstead-js/pkg/models"
	"github.com/TpouHuK/halstead-js/pkg/parser"
)

const sampleJS = `let limit = prompt("limit");
let total = 0;
let i = 0;
while (i < limit) {
  if (i % 2 == 0) {
    total = total + i;
  }
  i = i + 1;
}
print(total);
`

func analyzeSample(t *testing.T) *models.ProjectMetrics {
	t.Helper()
	a := metrics.New()
	defer a.Close()

	fm, err := a.AnalyzeSource(context.Background(), []byte(sampleJS), parser.LangJavaScript, "sample.js")
	require.NoError(t, err)

	files := []models.FileMetrics{*fm}
	return &models.ProjectMetrics{Files: files, Summary: metrics.Summarize(files, 0)}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":     FormatJSON,
		"JSON":     FormatJSON,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"toon":     FormatTOON,
		"yml":      FormatYAML,
		"yaml":     FormatYAML,
		"text":     FormatText,
		"":         FormatText,
		"bogus":    FormatText,
	}
	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFormatterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	f, err := NewFormatter(FormatJSON, path, true)
	require.NoError(t, err)
	assert.False(t, f.Colored(), "color is disabled for files")
	assert.Equal(t, FormatJSON, f.Format())

	require.NoError(t, f.Output(map[string]int{"a": 1}))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(data))
}

func TestNewFormatterBadPath(t *testing.T) {
	_, err := NewFormatter(FormatText, filepath.Join(t.TempDir(), "missing", "out.txt"), false)
	assert.Error(t, err)
}

func TestTableRenderText(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("Operators", []string{"Token", "Count"},
		[][]string{{"=", "3"}, {"if ...", "1"}}, []string{"2 distinct", "4"}, nil)

	require.NoError(t, NewWriterFormatter(FormatText, &buf, false).Output(table))

	out := buf.String()
	assert.Contains(t, out, "Operators\n---------")
	assert.Contains(t, out, "if ...")
	assert.Contains(t, out, "2 distinct")
}

func TestTableRenderMarkdownEscapesPipes(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("Operators", []string{"Token", "Count"}, [][]string{{"||", "2"}}, nil, nil)

	require.NoError(t, table.RenderMarkdown(&buf))

	assert.Equal(t, "### Operators\n\n| Token | Count |\n| --- | --- |\n| \\|\\| | 2 |\n\n", buf.String())
}

func TestTableRenderData(t *testing.T) {
	table := NewTable("", []string{"Token", "Count"}, [][]string{{"=", "3"}, {"+"}}, nil, nil)
	assert.Equal(t, []map[string]string{
		{"Token": "=", "Count": "3"},
		{"Token": "+"},
	}, table.RenderData())

	data := map[string]int{"=": 3}
	assert.Equal(t, data, NewTable("", nil, nil, nil, data).RenderData())
}

func TestSortedTally(t *testing.T) {
	got := SortedTally(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1})
	assert.Equal(t, []TallyEntry{
		{"c", 5},
		{"a", 2},
		{"b", 2},
		{"d", 1},
	}, got)
}

func TestTallyTableLimit(t *testing.T) {
	table := TallyTable("Operands", map[string]int{"x": 4, "y": 2, "z": 1}, 2)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"3 distinct", "7"}, table.Footer)
}

func TestChepinTable(t *testing.T) {
	g := models.ChepinGroups{
		Predicate: []string{"limit"},
		Control:   []string{"i", "total"},
	}
	table := ChepinTable(g)

	require.Len(t, table.Rows, 4)
	assert.Equal(t, []string{"P", "1", "limit"}, table.Rows[0])
	assert.Equal(t, []string{"M", "0", ""}, table.Rows[1])
	assert.Equal(t, []string{"C", "2", "i, total"}, table.Rows[2])
	assert.Equal(t, []string{"Q", "7", ""}, table.Footer)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0", formatFloat(0))
	assert.Equal(t, "8", formatFloat(8))
	assert.Equal(t, "0.38", formatFloat(0.375))
	assert.Equal(t, "144.5", formatFloat(144.499999))
}

func TestMetricsReportText(t *testing.T) {
	pm := analyzeSample(t)
	var buf bytes.Buffer

	report := NewMetricsReport(pm, ReportOptions{Tallies: true, MaxTallies: 5})
	require.NoError(t, NewWriterFormatter(FormatText, &buf, false).Output(report))

	out := buf.String()
	for _, want := range []string{
		"sample.js",
		metrics.LabelStatements,
		metrics.LabelIfCount,
		metrics.LabelIfSaturation,
		metrics.LabelMaxIfDepth,
		"Halstead",
		"Chepin",
		"Operators",
		"Operands",
	} {
		assert.Contains(t, out, want)
	}
	// Summary is only shown for several files.
	assert.NotContains(t, out, "Summary")
}

func TestMetricsReportMarkdown(t *testing.T) {
	pm := analyzeSample(t)
	pm.Files = append(pm.Files, pm.Files[0])
	pm.Files[1].Path = "copy.js"
	pm.Summary = metrics.Summarize(pm.Files, 1)

	var buf bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatMarkdown, &buf, false).Output(NewMetricsReport(pm, ReportOptions{})))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Halstead / Djilb / Chepin metrics\n"))
	assert.Contains(t, out, "## sample.js")
	assert.Contains(t, out, "## copy.js")
	assert.Contains(t, out, "## Summary")
	assert.Contains(t, out, "- Files: 2 analyzed, 1 failed")
	assert.NotContains(t, out, "### Operators")
}

func TestMetricsReportViolations(t *testing.T) {
	pm := analyzeSample(t)
	pm.Files[0].Violations = []models.Violation{{
		Severity: models.SeverityError,
		Rule:     "max-if-depth",
		Message:  "if nesting depth 9 exceeds 4",
	}}

	var text, md bytes.Buffer
	report := NewMetricsReport(pm, ReportOptions{})
	require.NoError(t, report.RenderText(&text, false))
	require.NoError(t, report.RenderMarkdown(&md))

	assert.Contains(t, text.String(), "ERROR [max-if-depth] if nesting depth 9 exceeds 4")
	assert.Contains(t, md.String(), "- **error** `max-if-depth`: if nesting depth 9 exceeds 4")
}

func TestMetricsReportJSONMatchesSchema(t *testing.T) {
	pm := analyzeSample(t)
	var buf bytes.Buffer

	require.NoError(t, NewWriterFormatter(FormatJSON, &buf, false).Output(NewMetricsReport(pm, ReportOptions{})))
	require.NoError(t, ValidateReport(buf.Bytes()))

	var decoded models.ProjectMetrics
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, pm.Files[0].Chepin, decoded.Files[0].Chepin)
	assert.Equal(t, pm.Files[0].Properties, decoded.Files[0].Properties)
}

func TestValidateReportRejectsBadShape(t *testing.T) {
	tests := map[string]string{
		"not json":        `{`,
		"missing summary": `{"files": []}`,
		"bad class": `{"files": [{"path": "a.js", "language": "javascript", "operators": {}, "operands": {},
			"identifiers": [{"name": "x", "class": "weird", "occurrences": 1}],
			"chepin": {"predicate": null, "modified": null, "control": null, "transient": null},
			"counters": {"statement_operators": 0, "decision_count": 0, "if_depth": 0, "max_if_depth": 0},
			"halstead": {"operators_unique": 0, "operands_unique": 0, "operators_total": 0, "operands_total": 0,
				"vocabulary": 0, "length": 0, "volume": 0},
			"properties": [{"label": "a", "value": "0"}, {"label": "b", "value": "0"},
				{"label": "c", "value": "0"}, {"label": "d", "value": "0"}]}],
			"summary": {"total_files": 1, "failed_files": 0}}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateReport([]byte(doc)))
		})
	}
}

func TestMetricsReportYAML(t *testing.T) {
	pm := analyzeSample(t)
	var buf bytes.Buffer

	require.NoError(t, NewWriterFormatter(FormatYAML, &buf, false).Output(NewMetricsReport(pm, ReportOptions{})))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "files")
	assert.Contains(t, decoded, "summary")
}

func TestMetricsReportTOON(t *testing.T) {
	pm := analyzeSample(t)
	var buf bytes.Buffer

	require.NoError(t, NewWriterFormatter(FormatTOON, &buf, false).Output(NewMetricsReport(pm, ReportOptions{})))

	out := buf.String()
	assert.Contains(t, out, "sample.js")
	assert.Contains(t, out, metrics.LabelIfSaturation)
}

func TestMarshal(t *testing.T) {
	data := map[string]int{"n": 1}

	out, err := Marshal(FormatJSON, data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": 1}`, string(out))

	out, err = Marshal(FormatYAML, data)
	require.NoError(t, err)
	assert.Equal(t, "n: 1", string(out))

	out, err = Marshal(FormatTOON, data)
	require.NoError(t, err)
	assert.Contains(t, string(out), "n: 1")
}
