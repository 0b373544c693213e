package models

import "math"

// HalsteadMetrics represents Halstead software science metrics.
type HalsteadMetrics struct {
	OperatorsUnique uint32  `json:"operators_unique" msgpack:"operators_unique"` // n1: distinct operators
	OperandsUnique  uint32  `json:"operands_unique" msgpack:"operands_unique"`   // n2: distinct operands
	OperatorsTotal  uint32  `json:"operators_total" msgpack:"operators_total"`   // N1: total operators
	OperandsTotal   uint32  `json:"operands_total" msgpack:"operands_total"`     // N2: total operands
	Vocabulary      uint32  `json:"vocabulary" msgpack:"vocabulary"`             // n = n1 + n2
	Length          uint32  `json:"length" msgpack:"length"`                     // N = N1 + N2
	Volume          float64 `json:"volume" msgpack:"volume"`                     // V = N * log2(n)
	SourceVolume    float64 `json:"source_volume" msgpack:"source_volume"`       // N * log2(n2)
	Difficulty      float64 `json:"difficulty" msgpack:"difficulty"`             // D = (n1/2) * (N2/n2)
	Effort          float64 `json:"effort" msgpack:"effort"`                     // E = D * V
	Time            float64 `json:"time" msgpack:"time"`                         // T = E / 18 (seconds)
	Bugs            float64 `json:"bugs" msgpack:"bugs"`                         // B = E^(2/3) / 3000
}

// NewHalsteadMetrics creates Halstead metrics from base counts and calculates derived values.
func NewHalsteadMetrics(operatorsUnique, operandsUnique, operatorsTotal, operandsTotal uint32) *HalsteadMetrics {
	h := &HalsteadMetrics{
		OperatorsUnique: operatorsUnique,
		OperandsUnique:  operandsUnique,
		OperatorsTotal:  operatorsTotal,
		OperandsTotal:   operandsTotal,
	}
	h.calculateDerived()
	return h
}

// HalsteadFromTallies builds metrics from operator and operand occurrence maps.
func HalsteadFromTallies(operators, operands map[string]int) *HalsteadMetrics {
	var operatorsTotal, operandsTotal uint32
	for _, n := range operators {
		operatorsTotal += uint32(n)
	}
	for _, n := range operands {
		operandsTotal += uint32(n)
	}
	return NewHalsteadMetrics(uint32(len(operators)), uint32(len(operands)), operatorsTotal, operandsTotal)
}

// calculateDerived computes all derived Halstead metrics from base counts.
func (h *HalsteadMetrics) calculateDerived() {
	h.Vocabulary = h.OperatorsUnique + h.OperandsUnique
	h.Length = h.OperatorsTotal + h.OperandsTotal

	// N * log2(n2), kept for comparison with reports that omit n1 from the vocabulary
	h.SourceVolume = float64(h.Length) * log2(float64(h.OperandsUnique))

	if h.OperatorsUnique == 0 || h.OperandsUnique == 0 {
		return
	}

	// V = N * log2(n) - Program Volume
	h.Volume = float64(h.Length) * log2(float64(h.Vocabulary))

	// D = (n1/2) * (N2/n2) - Program Difficulty
	h.Difficulty = (float64(h.OperatorsUnique) / 2.0) *
		(float64(h.OperandsTotal) / float64(h.OperandsUnique))

	// E = V * D - Programming Effort
	h.Effort = h.Volume * h.Difficulty

	// T = E / 18 - Time to program in seconds (18 mental discriminations per second)
	h.Time = h.Effort / 18.0

	// B = E^(2/3) / 3000 - Delivered bugs estimate
	h.Bugs = pow(h.Effort, 2.0/3.0) / 3000.0
}

// log2 computes log base 2
func log2(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Log2(x)
}

// pow computes x^y
func pow(x, y float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Pow(x, y)
}
