package metrics

import (
	"log/slog"

	"github.com/TpouHuK/halstead-js/pkg/models"
)

// finalize runs the two reachability passes over the finished graph.
func (g *identGraph) finalize(logger *slog.Logger) {
	// Pass 1: direct neighbors of the input sentinel are predicates.
	for _, name := range g.neighbors(InputSentinel) {
		if IsSentinel(name) {
			continue
		}
		rec := g.records[name]
		if rec.class != models.ChepinPredicate {
			logger.Debug("input-derived identifier", "name", name, "was", rec.class)
		}
		rec.class = models.ChepinPredicate
	}

	// Pass 2: anything that cannot reach the output sentinel is transient.
	for _, name := range g.names() {
		if IsSentinel(name) {
			continue
		}
		if g.reachesOutput(name) {
			continue
		}
		rec := g.records[name]
		if rec.class != models.ChepinTransient {
			logger.Debug("identifier never reaches output", "name", name, "was", rec.class)
		}
		rec.class = models.ChepinTransient
	}
}

// reachesOutput searches depth-first for a path from start to the output
// sentinel. The seen set lives only for this search.
func (g *identGraph) reachesOutput(start string) bool {
	seen := make(map[string]struct{})
	var dfs func(name string) bool
	dfs = func(name string) bool {
		if name == OutputSentinel {
			return true
		}
		if _, ok := seen[name]; ok {
			return false
		}
		seen[name] = struct{}{}
		for next := range g.records[name].usedWith {
			if dfs(next) {
				return true
			}
		}
		return false
	}
	return dfs(start)
}
