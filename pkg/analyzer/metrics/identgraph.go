package metrics

import (
	"fmt"
	"sort"

	"github.com/TpouHuK/halstead-js/pkg/models"
)

// Synthetic graph nodes for the program's I/O boundary.
const (
	InputSentinel  = "%INPUT%"
	OutputSentinel = "%OUTPUT%"
)

// IsSentinel reports whether name is one of the synthetic I/O nodes.
func IsSentinel(name string) bool {
	return name == InputSentinel || name == OutputSentinel
}

type identRecord struct {
	class       models.ChepinClass
	occurrences int
	usedWith    map[string]struct{}
}

// identGraph maps identifier names to their classification and use edges.
type identGraph struct {
	records map[string]*identRecord
}

func newIdentGraph() *identGraph {
	g := &identGraph{records: make(map[string]*identRecord)}
	// Both sentinels exist before the walk; print() opens an assignment
	// scope on %OUTPUT% and prompt() links %INPUT% to its target.
	g.records[InputSentinel] = &identRecord{
		class:    models.ChepinPredicate,
		usedWith: make(map[string]struct{}),
	}
	g.records[OutputSentinel] = &identRecord{
		class:    models.ChepinModified,
		usedWith: make(map[string]struct{}),
	}
	return g
}

// observe registers one occurrence of name under scope.
func (g *identGraph) observe(name string, scope scopeFrame) {
	implied := models.ChepinTransient
	switch scope.kind {
	case scopeControlCondition:
		implied = models.ChepinControl
	case scopeAssignment:
		implied = models.ChepinModified
		if _, ok := g.records[scope.target]; !ok {
			panic(fmt.Sprintf("metrics: assignment target %q observed before registration", scope.target))
		}
	}

	rec, ok := g.records[name]
	if !ok {
		rec = &identRecord{
			class:       implied,
			occurrences: 1,
			usedWith:    make(map[string]struct{}),
		}
		g.records[name] = rec
	} else {
		rec.class = rec.class.Escalate(implied)
		rec.occurrences++
	}

	if scope.kind == scopeAssignment {
		g.link(name, scope.target)
	}
}

// link inserts the undirected edge a <-> b.
func (g *identGraph) link(a, b string) {
	g.records[a].usedWith[b] = struct{}{}
	g.records[b].usedWith[a] = struct{}{}
}

func (g *identGraph) has(name string) bool {
	_, ok := g.records[name]
	return ok
}

func (g *identGraph) linked(a, b string) bool {
	rec, ok := g.records[a]
	if !ok {
		return false
	}
	_, ok = rec.usedWith[b]
	return ok
}

// names returns every node name in sorted order.
func (g *identGraph) names() []string {
	out := make([]string, 0, len(g.records))
	for name := range g.records {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (g *identGraph) neighbors(name string) []string {
	rec := g.records[name]
	out := make([]string, 0, len(rec.usedWith))
	for n := range rec.usedWith {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// summaries returns the non-sentinel records as sorted summaries.
func (g *identGraph) summaries() []models.IdentifierSummary {
	var out []models.IdentifierSummary
	for _, name := range g.names() {
		if IsSentinel(name) {
			continue
		}
		rec := g.records[name]
		out = append(out, models.IdentifierSummary{
			Name:        name,
			Class:       rec.class,
			Occurrences: rec.occurrences,
			UsedWith:    g.neighbors(name),
		})
	}
	return out
}

func (g *identGraph) chepinGroups() models.ChepinGroups {
	var groups models.ChepinGroups
	for _, name := range g.names() {
		if IsSentinel(name) {
			continue
		}
		groups.Add(g.records[name].class, name)
	}
	return groups
}
