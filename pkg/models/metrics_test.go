package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters_DecisionDensity(t *testing.T) {
	assert.Equal(t, 0.0, Counters{DecisionCount: 3}.DecisionDensity())
	assert.InDelta(t, 0.25, Counters{StatementOperators: 8, DecisionCount: 2}.DecisionDensity(), 1e-9)
}

func TestFileMetrics_Property(t *testing.T) {
	m := &FileMetrics{Properties: []Property{{Label: "Program statements", Value: "4"}}}

	v, ok := m.Property("Program statements")
	require.True(t, ok)
	assert.Equal(t, "4", v)

	_, ok = m.Property("missing")
	assert.False(t, ok)
}

func TestFileMetrics_CheckThresholds(t *testing.T) {
	tests := []struct {
		name string
		m    FileMetrics
		want map[string]ViolationSeverity
	}{
		{
			name: "within limits",
			m: FileMetrics{
				Counters:        Counters{MaxIfDepth: 2},
				DecisionDensity: 0.1,
				Halstead:        &HalsteadMetrics{Volume: 100},
			},
			want: map[string]ViolationSeverity{},
		},
		{
			name: "depth warning",
			m:    FileMetrics{Counters: Counters{MaxIfDepth: 5}},
			want: map[string]ViolationSeverity{"max-if-depth": SeverityWarning},
		},
		{
			name: "depth error and saturation warning",
			m:    FileMetrics{Counters: Counters{MaxIfDepth: 9}, DecisionDensity: 0.75},
			want: map[string]ViolationSeverity{
				"max-if-depth":  SeverityError,
				"if-saturation": SeverityWarning,
			},
		},
		{
			name: "volume error",
			m:    FileMetrics{Halstead: &HalsteadMetrics{Volume: 20000}},
			want: map[string]ViolationSeverity{"halstead-volume": SeverityError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.CheckThresholds(DefaultThresholds())
			bySeverity := make(map[string]ViolationSeverity, len(got))
			for _, v := range got {
				bySeverity[v.Rule] = v.Severity
				assert.NotEmpty(t, v.Message)
			}
			assert.Equal(t, tt.want, bySeverity)
		})
	}
}

func TestFileMetrics_CheckThresholdsDisabled(t *testing.T) {
	m := FileMetrics{Counters: Counters{MaxIfDepth: 100}, DecisionDensity: 1}
	assert.Empty(t, m.CheckThresholds(Thresholds{}))
}
