package measurement

import (
	"math"
	"testing"

	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingAdapter wraps a graph and counts removals
type recordingAdapter struct {
	*scene.Graph
	removed []scene.Handle
}

func (r *recordingAdapter) Remove(h scene.Handle) {
	r.removed = append(r.removed, h)
	r.Graph.Remove(h)
}

func newSession(t *testing.T) (*Session, *recordingAdapter) {
	t.Helper()
	adapter := &recordingAdapter{Graph: scene.NewGraph(zerolog.Nop())}
	return NewSession(adapter, scene.NewTextureLabels(0.001), DefaultStyle(), zerolog.Nop()), adapter
}

var (
	p1 = geometry.NewVector3(0, 0, -1)
	p2 = geometry.NewVector3(0, 0, -2)
)

func TestAddPointTransitions(t *testing.T) {
	s, graph := newSession(t)
	assert.Equal(t, Idle, s.State())

	assert.Equal(t, 1, s.AddPoint(p1))
	assert.Equal(t, OnePointPlaced, s.State())
	assert.Empty(t, s.Segments())
	assert.Equal(t, 1, graph.Count(scene.KindMarker))
	assert.Equal(t, 0, graph.Count(scene.KindLine))

	assert.Equal(t, 2, s.AddPoint(p2))
	assert.Equal(t, Completed, s.State())
	require.Len(t, s.Segments(), 1)
	assert.Equal(t, 2, graph.Count(scene.KindMarker))
	assert.Equal(t, 1, graph.Count(scene.KindLine))
	assert.Equal(t, 1, graph.Count(scene.KindLabel))
}

func TestSegmentDistanceAndLabel(t *testing.T) {
	s, graph := newSession(t)
	s.AddPoint(p1)
	s.AddPoint(p2)

	seg := s.Segments()[0]
	assert.InDelta(t, 1.0, seg.Distance, 1e-12)
	assert.Equal(t, p1, seg.Start)
	assert.Equal(t, p2, seg.End)

	label, ok := graph.Get(seg.Label)
	require.True(t, ok)
	assert.Equal(t, "100.0 cm", label.Text)
	assert.Equal(t, geometry.NewVector3(0, 0, -1.5), label.Position())

	line, ok := graph.Get(seg.Line)
	require.True(t, ok)
	assert.Equal(t, p1, line.From)
	assert.Equal(t, p2, line.To)

	d, ok := s.LastDistance()
	require.True(t, ok)
	assert.InDelta(t, 1.0, d, 1e-12)
}

func TestSegmentDistanceIsEuclidean(t *testing.T) {
	cases := []struct {
		a, b  geometry.Vector3
		label string
	}{
		{geometry.NewVector3(0, 0, 0), geometry.NewVector3(0.3, 0.4, 0), "50.0 cm"},
		{geometry.NewVector3(1, 1, 1), geometry.NewVector3(1, 1, 1.01234), "1.2 cm"},
		{geometry.NewVector3(-0.5, 0, -1), geometry.NewVector3(0.5, 0, -1), "100.0 cm"},
	}
	for _, tc := range cases {
		s, graph := newSession(t)
		s.AddPoint(tc.a)
		s.AddPoint(tc.b)

		seg := s.Segments()[0]
		assert.InDelta(t, tc.a.Distance(tc.b), seg.Distance, 1e-12)
		label, _ := graph.Get(seg.Label)
		assert.Equal(t, tc.label, label.Text)
	}
}

func TestAddPointWhileCompletedIsIgnored(t *testing.T) {
	s, graph := newSession(t)
	s.AddPoint(p1)
	s.AddPoint(p2)
	before := graph.Len()

	assert.Equal(t, 2, s.AddPoint(geometry.NewVector3(5, 5, 5)))
	assert.Len(t, s.Points(), 2)
	assert.Len(t, s.Segments(), 1)
	assert.Equal(t, before, graph.Len())
}

func TestClearIsIdempotent(t *testing.T) {
	s, graph := newSession(t)
	s.AddPoint(p1)
	s.AddPoint(p2)

	s.Clear()
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.Points())
	assert.Empty(t, s.Segments())
	assert.Equal(t, 0, graph.Len())
	removed := len(graph.removed)
	assert.Equal(t, 4, removed)

	s.Clear()
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 0, graph.Len())
	assert.Len(t, graph.removed, removed, "second clear removes nothing")
}

func TestRemoveLastOnEmptyIsNoop(t *testing.T) {
	s, graph := newSession(t)

	assert.NotPanics(t, s.RemoveLastMeasurement)
	assert.Empty(t, graph.removed)
	assert.Equal(t, Idle, s.State())
}

func TestUndoAfterComplete(t *testing.T) {
	s, graph := newSession(t)
	s.AddPoint(p1)
	s.AddPoint(p2)

	s.RemoveLastMeasurement()
	assert.Equal(t, OnePointPlaced, s.State())
	assert.Len(t, s.Points(), 1)
	assert.Empty(t, s.Segments())
	assert.Equal(t, p1, s.Points()[0].Position)
	assert.Equal(t, 1, graph.Len(), "only the first marker remains")
	_, ok := s.LastDistance()
	assert.False(t, ok)

	s.RemoveLastMeasurement()
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.Points())
	assert.Equal(t, 0, graph.Len())
}

func TestMeasureAgainAfterUndo(t *testing.T) {
	s, _ := newSession(t)
	s.AddPoint(p1)
	s.AddPoint(p2)
	s.RemoveLastMeasurement()

	p3 := geometry.NewVector3(0, 0, -1.25)
	assert.Equal(t, 2, s.AddPoint(p3))
	require.Len(t, s.Segments(), 1)
	assert.InDelta(t, 0.25, s.Segments()[0].Distance, 1e-12)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "100.0 cm", FormatLabel(1))
	assert.Equal(t, "12.3 cm", FormatLabel(0.12345))
	assert.Equal(t, "0.0 cm", FormatLabel(0))
	assert.Equal(t, "100.00", FormatReadout(1))
	assert.Equal(t, "12.35", FormatReadout(0.123456))
	assert.Equal(t, ReadoutReset, FormatReadout(0))
	assert.InDelta(t, 150.0, Centimeters(1.5), 1e-12)
	assert.False(t, math.IsNaN(Centimeters(0)))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "completed", Completed.String())
}
