package metrics

import (
	"strconv"

	"github.com/TpouHuK/halstead-js/pkg/models"
)

// Summary property labels, in report order.
const (
	LabelStatements   = "Program statements"
	LabelIfCount      = "Djilb CL (amount of ifs)"
	LabelIfSaturation = "Djilb cl (if saturation)"
	LabelMaxIfDepth   = "Djilb CLI (max if depth)"
)

// report converts the finished run state into a result record.
func (w *walker) report() *models.FileMetrics {
	counters := models.Counters{
		StatementOperators: w.tally.statementOperators,
		DecisionCount:      w.tally.decisionCount,
		IfDepth:            w.tally.ifDepth,
		MaxIfDepth:         w.tally.maxIfDepth,
	}
	density := counters.DecisionDensity()

	chepin := w.idents.chepinGroups()
	return &models.FileMetrics{
		Operators:       w.tally.operators,
		Operands:        w.tally.operands,
		Identifiers:     w.idents.summaries(),
		Chepin:          chepin,
		ChepinScore:     chepin.Score(),
		Counters:        counters,
		DecisionDensity: density,
		Halstead:        models.HalsteadFromTallies(w.tally.operators, w.tally.operands),
		Properties: []models.Property{
			{Label: LabelStatements, Value: strconv.Itoa(counters.StatementOperators)},
			{Label: LabelIfCount, Value: strconv.Itoa(counters.DecisionCount)},
			{Label: LabelIfSaturation, Value: strconv.FormatFloat(density, 'g', 6, 64)},
			{Label: LabelMaxIfDepth, Value: strconv.Itoa(counters.MaxIfDepth)},
		},
	}
}
