package models

import (
	"fmt"
	"sort"
)

// ChepinClass is the role a variable plays in the program.
// The numeric order is the escalation order used while walking a tree.
type ChepinClass int

const (
	ChepinPredicate ChepinClass = iota + 1 // P: derived from external input
	ChepinModified                         // M: assigned inside the program
	ChepinControl                          // C: used in a branch condition
	ChepinTransient                        // T: not reachably used toward output
)

var chepinNames = map[ChepinClass]string{
	ChepinPredicate: "predicate",
	ChepinModified:  "modified",
	ChepinControl:   "control",
	ChepinTransient: "transient",
}

func (c ChepinClass) String() string {
	if name, ok := chepinNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ChepinClass(%d)", int(c))
}

// Letter returns the single-letter Chepin group name (P, M, C or T).
func (c ChepinClass) Letter() string {
	switch c {
	case ChepinPredicate:
		return "P"
	case ChepinModified:
		return "M"
	case ChepinControl:
		return "C"
	case ChepinTransient:
		return "T"
	default:
		return "?"
	}
}

// Escalate returns the stronger of c and other.
func (c ChepinClass) Escalate(other ChepinClass) ChepinClass {
	if other > c {
		return other
	}
	return c
}

// MarshalText implements encoding.TextMarshaler.
func (c ChepinClass) MarshalText() ([]byte, error) {
	name, ok := chepinNames[c]
	if !ok {
		return nil, fmt.Errorf("invalid chepin class %d", int(c))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ChepinClass) UnmarshalText(text []byte) error {
	for class, name := range chepinNames {
		if name == string(text) {
			*c = class
			return nil
		}
	}
	return fmt.Errorf("unknown chepin class %q", text)
}

// ChepinGroups holds the identifier names in each Chepin category, sorted.
type ChepinGroups struct {
	Predicate []string `json:"predicate" msgpack:"predicate"`
	Modified  []string `json:"modified" msgpack:"modified"`
	Control   []string `json:"control" msgpack:"control"`
	Transient []string `json:"transient" msgpack:"transient"`
}

// Add appends name to the group for class.
func (g *ChepinGroups) Add(class ChepinClass, name string) {
	switch class {
	case ChepinPredicate:
		g.Predicate = append(g.Predicate, name)
	case ChepinModified:
		g.Modified = append(g.Modified, name)
	case ChepinControl:
		g.Control = append(g.Control, name)
	case ChepinTransient:
		g.Transient = append(g.Transient, name)
	}
}

// Sort orders every group alphabetically.
func (g *ChepinGroups) Sort() {
	sort.Strings(g.Predicate)
	sort.Strings(g.Modified)
	sort.Strings(g.Control)
	sort.Strings(g.Transient)
}

// Group returns the names classified as class.
func (g ChepinGroups) Group(class ChepinClass) []string {
	switch class {
	case ChepinPredicate:
		return g.Predicate
	case ChepinModified:
		return g.Modified
	case ChepinControl:
		return g.Control
	case ChepinTransient:
		return g.Transient
	default:
		return nil
	}
}

// Score computes Chepin's weighted measure Q = P + 2M + 3C + 0.5T.
func (g ChepinGroups) Score() float64 {
	return float64(len(g.Predicate)) +
		2*float64(len(g.Modified)) +
		3*float64(len(g.Control)) +
		0.5*float64(len(g.Transient))
}
