package metrics

import (
	"github.com/TpouHuK/halstead-js/pkg/models"
	"github.com/TpouHuK/halstead-js/pkg/stats"
)

// Summarize aggregates per-file metrics into a project summary.
func Summarize(files []models.FileMetrics, failed int) models.ProjectSummary {
	s := models.ProjectSummary{
		TotalFiles:  len(files),
		FailedFiles: failed,
	}
	if len(files) == 0 {
		return s
	}

	depths := make([]float64, len(files))
	volumes := make([]float64, len(files))
	saturations := make([]float64, len(files))
	for i, f := range files {
		s.StatementOperators += f.Counters.StatementOperators
		s.DecisionCount += f.Counters.DecisionCount
		s.MaxIfDepth = max(s.MaxIfDepth, f.Counters.MaxIfDepth)
		s.ViolationCount += len(f.Violations)

		depths[i] = float64(f.Counters.MaxIfDepth)
		saturations[i] = f.DecisionDensity
		if f.Halstead != nil {
			volumes[i] = f.Halstead.Volume
		}
	}

	s.P50MaxIfDepth = stats.Quantile(depths, 0.5)
	s.P90MaxIfDepth = stats.Quantile(depths, 0.9)
	s.MeanVolume, s.StdDevVolume = stats.MeanStdDev(volumes)
	s.MeanIfSaturation, _ = stats.MeanStdDev(saturations)
	return s
}
