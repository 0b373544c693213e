package metrics

import (
	"testing"

	"github.com/TpouHuK/halstead-js/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestScopeStack(t *testing.T) {
	var s scopeStack
	s.enter(blockFrame())
	s.enter(assignFrame("x"))

	assert.Equal(t, 2, s.depth())
	assert.Equal(t, scopeFrame{kind: scopeAssignment, target: "x"}, s.current())

	s.exit()
	assert.Equal(t, scopeBlock, s.current().kind)
	s.exit()
	assert.Equal(t, 0, s.depth())
}

func TestScopeStackContractViolations(t *testing.T) {
	var s scopeStack
	assert.Panics(t, func() { s.exit() })
	assert.Panics(t, func() { s.current() })
}

func TestTallyStore(t *testing.T) {
	ts := newTallyStore()
	ts.recordOperator("=")
	ts.recordOperator("=")
	ts.recordOperand("x")

	assert.Equal(t, 2, ts.operators["="])
	assert.Equal(t, 1, ts.operands["x"])

	ts.enterDecision(2)
	ts.observeDepth()
	ts.exitDecision(2)
	ts.observeDepth()
	assert.Equal(t, 2, ts.maxIfDepth)
	assert.Equal(t, 0, ts.ifDepth)

	assert.Panics(t, func() { ts.exitDecision(1) })
}

func TestIdentGraphObserve(t *testing.T) {
	g := newIdentGraph()
	assert.True(t, g.has(InputSentinel), "input sentinel is pre-seeded")
	assert.True(t, g.has(OutputSentinel), "output sentinel is pre-seeded")

	g.observe("x", blockFrame())
	g.observe("y", assignFrame("x"))
	g.observe("x", controlFrame())

	assert.Equal(t, models.ChepinControl, g.records["x"].class)
	assert.Equal(t, 2, g.records["x"].occurrences)
	assert.Equal(t, models.ChepinModified, g.records["y"].class)
	assert.True(t, g.linked("x", "y"))
	assert.True(t, g.linked("y", "x"))
	assert.False(t, g.linked("x", "z"))
}

func TestIdentGraphUnregisteredTarget(t *testing.T) {
	g := newIdentGraph()
	assert.Panics(t, func() { g.observe("y", assignFrame("missing")) })
}

func TestIdentGraphSummariesSkipSentinels(t *testing.T) {
	g := newIdentGraph()
	g.observe(InputSentinel, assignFrame(OutputSentinel))
	g.observe("b", blockFrame())
	g.observe("a", assignFrame("b"))
	g.finalize(discardLogger())

	names := []string{}
	for _, s := range g.summaries() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, models.ChepinGroups{Transient: []string{"a", "b"}}, g.chepinGroups())
}

func TestReachesOutput(t *testing.T) {
	g := newIdentGraph()
	g.observe("a", blockFrame())
	g.observe("b", assignFrame("a"))
	g.observe("c", assignFrame("b"))
	g.observe("c", assignFrame(OutputSentinel))
	g.observe("lonely", blockFrame())
	g.observe("lonely", assignFrame("lonely"))

	assert.True(t, g.reachesOutput("a"))
	assert.True(t, g.reachesOutput("c"))
	assert.True(t, g.reachesOutput(OutputSentinel))
	assert.False(t, g.reachesOutput("lonely"), "self loops terminate")

	// repeated searches start from a clean state
	assert.True(t, g.reachesOutput("a"))
	assert.False(t, g.reachesOutput("lonely"))
}
