package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChepinClass_Escalate(t *testing.T) {
	tests := []struct {
		from, to ChepinClass
		want     ChepinClass
	}{
		{ChepinPredicate, ChepinModified, ChepinModified},
		{ChepinModified, ChepinPredicate, ChepinModified},
		{ChepinModified, ChepinControl, ChepinControl},
		{ChepinControl, ChepinTransient, ChepinTransient},
		{ChepinTransient, ChepinControl, ChepinTransient},
		{ChepinControl, ChepinControl, ChepinControl},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Escalate(tt.to))
		})
	}
}

func TestChepinClass_Letter(t *testing.T) {
	assert.Equal(t, "P", ChepinPredicate.Letter())
	assert.Equal(t, "M", ChepinModified.Letter())
	assert.Equal(t, "C", ChepinControl.Letter())
	assert.Equal(t, "T", ChepinTransient.Letter())
	assert.Equal(t, "?", ChepinClass(0).Letter())
	assert.Equal(t, "ChepinClass(9)", ChepinClass(9).String())
}

func TestChepinClass_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]ChepinClass{"x": ChepinControl})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":"control"}`, string(data))

	var back map[string]ChepinClass
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ChepinControl, back["x"])

	var c ChepinClass
	assert.Error(t, c.UnmarshalText([]byte("bogus")))
	_, err = ChepinClass(0).MarshalText()
	assert.Error(t, err)
}

func TestChepinGroups(t *testing.T) {
	var g ChepinGroups
	g.Add(ChepinTransient, "z")
	g.Add(ChepinPredicate, "b")
	g.Add(ChepinPredicate, "a")
	g.Add(ChepinModified, "m")
	g.Add(ChepinControl, "c")
	g.Add(ChepinTransient, "t")
	g.Sort()

	assert.Equal(t, []string{"a", "b"}, g.Group(ChepinPredicate))
	assert.Equal(t, []string{"m"}, g.Group(ChepinModified))
	assert.Equal(t, []string{"c"}, g.Group(ChepinControl))
	assert.Equal(t, []string{"t", "z"}, g.Group(ChepinTransient))
	assert.Nil(t, g.Group(ChepinClass(0)))

	// 2*1 + 1*2 + 1*3 + 2*0.5
	assert.InDelta(t, 8.0, g.Score(), 1e-9)
}
