package sim

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/philipparndt/armeasure/internal/xr"
	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFloor(t *testing.T) *Scenario {
	t.Helper()
	s, err := LoadScenario("testdata/floor.yaml")
	require.NoError(t, err)
	return s
}

func TestLoadScenario(t *testing.T) {
	s := loadFloor(t)

	assert.Equal(t, "floor two points", s.Name)
	assert.True(t, s.IsSupported())
	assert.True(t, s.AdvertisedFeatures().Has(xr.FeatureHitTest))
	require.Len(t, s.Frames, 4)
	assert.Equal(t, []Action{ActionStart}, s.Frames[0].Actions)
	assert.False(t, s.Frames[2].HasSnapshot())
	assert.True(t, s.Frames[3].HasSnapshot())
	require.NotNil(t, s.Expect)
	assert.Equal(t, "100.00", s.Expect.Readout)
}

func TestParseScenarioRejectsUnknownAction(t *testing.T) {
	_, err := ParseScenario(strings.NewReader(`
frames:
  - actions: [jump]
`), ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown action "jump"`)
}

func TestParseScenarioRejectsUnknownField(t *testing.T) {
	_, err := ParseScenario(strings.NewReader("colour: red\nframes: []\n"), ".")
	require.Error(t, err)
}

func TestPlaneTrianglesFaceNormal(t *testing.T) {
	wall := Plane{Center: Vec{0, 1, -2}, Normal: Vec{0, 0, 1}, Width: 2, Height: 2}

	tris := wall.Triangles()
	require.Len(t, tris, 2)
	for _, tri := range tris {
		assert.InDelta(t, 1.0, tri.CalculateNormal().Z, 1e-9)
		assert.InDelta(t, -2.0, tri.Center().Z, 1e-9)
	}
}

func startSession(t *testing.T, d *Device) *Session {
	t.Helper()
	s, err := d.RequestSession(context.Background(), xr.ModeImmersiveAR, xr.SessionInit{
		RequiredFeatures: []xr.Feature{xr.FeatureLocal},
		OptionalFeatures: []xr.Feature{xr.FeatureHitTest},
	})
	require.NoError(t, err)
	return s.(*Session)
}

func TestFrameHitTestFirstRankedIsNearest(t *testing.T) {
	scenario := &Scenario{Planes: []Plane{
		{Center: Vec{0, 0, -3}, Normal: Vec{0, 0, 1}, Width: 2, Height: 2},
		{Center: Vec{0, 0, -1}, Normal: Vec{0, 0, 1}, Width: 2, Height: 2},
	}}
	d, err := NewDevice(scenario, zerolog.Nop())
	require.NoError(t, err)
	session := startSession(t, d)

	viewer, err := session.RequestReferenceSpace(context.Background(), xr.ReferenceSpaceViewer)
	require.NoError(t, err)
	local, err := session.RequestReferenceSpace(context.Background(), xr.ReferenceSpaceLocal)
	require.NoError(t, err)
	source, err := session.RequestHitTestSource(context.Background(), viewer)
	require.NoError(t, err)

	results := d.Snapshot().HitTestResults(source)
	require.Len(t, results, 2)

	pose, err := results[0].Pose(local)
	require.NoError(t, err)
	pos, rot := pose.Decompose()
	assert.InDelta(t, -1.0, pos.Z, 1e-9)
	up := rot.Rotate(geometry.NewVector3(0, 1, 0))
	assert.InDelta(t, 1.0, up.Z, 1e-9, "hit +Y axis follows the surface normal")
}

func TestFrameHitTestAgainstFloor(t *testing.T) {
	d, err := NewDevice(loadFloor(t), zerolog.Nop())
	require.NoError(t, err)
	session := startSession(t, d)
	ctx := context.Background()

	viewer, _ := session.RequestReferenceSpace(ctx, xr.ReferenceSpaceViewer)
	local, _ := session.RequestReferenceSpace(ctx, xr.ReferenceSpaceLocal)
	source, err := session.RequestHitTestSource(ctx, viewer)
	require.NoError(t, err)

	d.SetViewer(Viewer{Position: Vec{0, 1, 0}, Pitch: -45}.Pose())
	results := d.Snapshot().HitTestResults(source)
	require.NotEmpty(t, results)
	pose, err := results[0].Pose(local)
	require.NoError(t, err)
	assert.InDelta(t, 0, pose.Position().Distance(geometry.NewVector3(0, 0, -1)), 1e-9)

	// Looking up finds nothing
	d.SetViewer(Viewer{Position: Vec{0, 1, 0}, Pitch: 45}.Pose())
	assert.Empty(t, d.Snapshot().HitTestResults(source))
}

func TestFramePoseLost(t *testing.T) {
	d, err := NewDevice(loadFloor(t), zerolog.Nop())
	require.NoError(t, err)
	session := startSession(t, d)
	ctx := context.Background()
	viewer, _ := session.RequestReferenceSpace(ctx, xr.ReferenceSpaceViewer)
	source, _ := session.RequestHitTestSource(ctx, viewer)

	d.SetViewer(Viewer{Position: Vec{0, 1, 0}, Pitch: -45}.Pose())
	d.SetPoseLost(true)

	frame := d.Snapshot()
	results := frame.HitTestResults(source)
	require.NotEmpty(t, results)
	_, err = results[0].Pose(viewer)
	assert.True(t, errors.Is(err, xr.ErrPoseUnresolved))
	_, err = frame.ViewerPose(viewer)
	assert.ErrorIs(t, err, xr.ErrPoseUnresolved)
}

func TestCancelledSourceYieldsNothing(t *testing.T) {
	d, err := NewDevice(loadFloor(t), zerolog.Nop())
	require.NoError(t, err)
	session := startSession(t, d)
	viewer, _ := session.RequestReferenceSpace(context.Background(), xr.ReferenceSpaceViewer)
	source, _ := session.RequestHitTestSource(context.Background(), viewer)
	d.SetViewer(Viewer{Position: Vec{0, 1, 0}, Pitch: -45}.Pose())

	source.Cancel()
	assert.Empty(t, d.Snapshot().HitTestResults(source))
}

func TestInjectedAcquisitionFailures(t *testing.T) {
	scenario := loadFloor(t)
	scenario.FailAcquisitions = 1
	d, err := NewDevice(scenario, zerolog.Nop())
	require.NoError(t, err)
	session := startSession(t, d)
	viewer, _ := session.RequestReferenceSpace(context.Background(), xr.ReferenceSpaceViewer)

	_, err = session.RequestHitTestSource(context.Background(), viewer)
	require.Error(t, err)
	_, err = session.RequestHitTestSource(context.Background(), viewer)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Acquisitions())
}

func TestRequestSessionFailures(t *testing.T) {
	unsupported := false
	d, err := NewDevice(&Scenario{Supported: &unsupported}, zerolog.Nop())
	require.NoError(t, err)

	ok, err := d.IsSessionSupported(context.Background(), xr.ModeImmersiveAR)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = d.RequestSession(context.Background(), xr.ModeImmersiveAR, xr.SessionInit{})
	assert.ErrorIs(t, err, xr.ErrSessionStartFailed)

	d, err = NewDevice(&Scenario{Features: []xr.Feature{xr.FeatureLocal}}, zerolog.Nop())
	require.NoError(t, err)
	_, err = d.RequestSession(context.Background(), xr.ModeImmersiveAR, xr.SessionInit{
		RequiredFeatures: []xr.Feature{xr.FeatureHitTest},
	})
	assert.ErrorIs(t, err, xr.ErrSessionStartFailed)
}

func TestSessionEndRunsCallbacksOnce(t *testing.T) {
	d, err := NewDevice(loadFloor(t), zerolog.Nop())
	require.NoError(t, err)
	session := startSession(t, d)

	calls := 0
	session.OnEnd(func() { calls++ })

	require.NoError(t, session.End())
	require.NoError(t, session.End())
	assert.Equal(t, 1, calls)

	_, err = session.RequestReferenceSpace(context.Background(), xr.ReferenceSpaceLocal)
	assert.ErrorIs(t, err, xr.ErrSessionEnded)
}
