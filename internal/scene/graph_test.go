package scene

import (
	"testing"

	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddRemoveKeepsOrder(t *testing.T) {
	g := NewGraph(zerolog.Nop())

	a := g.Add(Primitive{Kind: KindMarker, Transform: geometry.Translation(geometry.NewVector3(1, 0, 0))})
	b := g.Add(Primitive{Kind: KindLine})
	c := g.Add(Primitive{Kind: KindLabel, Text: "1.0 cm"})
	require.NotEqual(t, a, b)

	assert.Equal(t, 3, g.Len())
	g.Remove(b)

	prims := g.Primitives()
	require.Len(t, prims, 2)
	assert.Equal(t, KindMarker, prims[0].Kind)
	assert.Equal(t, KindLabel, prims[1].Kind)

	p, ok := g.Get(c)
	require.True(t, ok)
	assert.Equal(t, "1.0 cm", p.Text)
	_, ok = g.Get(b)
	assert.False(t, ok)
}

func TestGraphRemoveUnknownIsNoop(t *testing.T) {
	g := NewGraph(zerolog.Nop())
	g.Add(Primitive{Kind: KindPlane})

	g.Remove("missing")
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 1, g.Count(KindPlane))
	assert.Equal(t, 0, g.Count(KindMarker))
}

func TestPrimitivePosition(t *testing.T) {
	line := Primitive{Kind: KindLine, From: geometry.NewVector3(0, 0, -1), To: geometry.NewVector3(0, 0, -2)}
	assert.Equal(t, geometry.NewVector3(0, 0, -1.5), line.Position())

	marker := Primitive{Kind: KindMarker, Transform: geometry.Translation(geometry.NewVector3(1, 2, 3))}
	assert.Equal(t, geometry.NewVector3(1, 2, 3), marker.Position())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "marker", KindMarker.String())
	assert.Equal(t, "plane", KindPlane.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
