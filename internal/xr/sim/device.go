package sim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/philipparndt/armeasure/internal/xr"
	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/rs/zerolog"
)

// sameHitEpsilon merges intersections that are closer than this along the ray
const sameHitEpsilon = 1e-9

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Device is a simulated tracking runtime implementing xr.Provider
type Device struct {
	mu        sync.Mutex
	scenario  *Scenario
	env       []geometry.Triangle
	viewer    geometry.Pose
	poseLost  bool
	failsLeft int
	session   *Session
	log       zerolog.Logger
}

// NewDevice creates a device that detects the scenario's surfaces
func NewDevice(scenario *Scenario, log zerolog.Logger) (*Device, error) {
	env, err := scenario.Environment()
	if err != nil {
		return nil, err
	}
	return &Device{
		scenario:  scenario,
		env:       env,
		viewer:    geometry.Pose{Orientation: geometry.IdentityQuaternion()},
		failsLeft: scenario.FailAcquisitions,
		log:       log.With().Str("component", "sim").Logger(),
	}, nil
}

// Environment returns the detectable surface facets
func (d *Device) Environment() []geometry.Triangle {
	return d.env
}

// SetViewer moves the simulated device
func (d *Device) SetViewer(pose geometry.Pose) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewer = pose
}

// Viewer returns the current device pose in the local space
func (d *Device) Viewer() geometry.Pose {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewer
}

// SetPoseLost makes pose resolution fail until cleared
func (d *Device) SetPoseLost(lost bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.poseLost = lost
}

// PoseLost reports whether pose resolution is currently failing
func (d *Device) PoseLost() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.poseLost
}

// Session returns the running session, or nil
func (d *Device) Session() *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}

// Snapshot captures the tracking frame for the current device state
func (d *Device) Snapshot() *Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &Frame{viewer: d.viewer, poseLost: d.poseLost, env: d.env}
}

// IsSessionSupported implements xr.Provider
func (d *Device) IsSessionSupported(ctx context.Context, mode xr.Mode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return mode == xr.ModeImmersiveAR && d.scenario.IsSupported(), nil
}

// RequestSession implements xr.Provider. Enabled features are the advertised
// ones the caller asked for; a missing required feature fails the session.
func (d *Device) RequestSession(ctx context.Context, mode xr.Mode, init xr.SessionInit) (xr.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", xr.ErrSessionStartFailed, err)
	}
	if mode != xr.ModeImmersiveAR || !d.scenario.IsSupported() {
		return nil, fmt.Errorf("%w: mode %s not supported", xr.ErrSessionStartFailed, mode)
	}
	if d.scenario.FailSession {
		return nil, fmt.Errorf("%w: device refused the session", xr.ErrSessionStartFailed)
	}

	advertised := d.scenario.AdvertisedFeatures()
	enabled := xr.NewFeatureSet()
	for _, f := range init.RequiredFeatures {
		if !advertised.Has(f) {
			return nil, fmt.Errorf("%w: required feature %s not available", xr.ErrSessionStartFailed, f)
		}
		enabled[f] = struct{}{}
	}
	for _, f := range init.OptionalFeatures {
		if advertised.Has(f) {
			enabled[f] = struct{}{}
		}
	}

	s := &Session{device: d, features: enabled}
	d.mu.Lock()
	d.session = s
	d.mu.Unlock()
	d.log.Debug().Int("features", len(enabled)).Msg("session started")
	return s, nil
}

// takeFailure consumes one injected acquisition failure
func (d *Device) takeFailure() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failsLeft > 0 {
		d.failsLeft--
		return true
	}
	return false
}

// Session is a simulated xr.Session
type Session struct {
	device   *Device
	features xr.FeatureSet

	mu           sync.Mutex
	ended        bool
	onEnd        []func()
	acquisitions int
}

// EnabledFeatures implements xr.Session
func (s *Session) EnabledFeatures() xr.FeatureSet {
	return s.features
}

// Acquisitions returns how many hit-test sources were requested
func (s *Session) Acquisitions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquisitions
}

// Ended reports whether End was called
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// RequestReferenceSpace implements xr.Session
func (s *Session) RequestReferenceSpace(ctx context.Context, kind xr.ReferenceSpaceType) (xr.Space, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Ended() {
		return nil, xr.ErrSessionEnded
	}
	switch kind {
	case xr.ReferenceSpaceViewer, xr.ReferenceSpaceLocal, xr.ReferenceSpaceLocalFloor:
		return Space{kind: kind}, nil
	}
	return nil, fmt.Errorf("unsupported reference space %q", kind)
}

// RequestHitTestSource implements xr.Session
func (s *Session) RequestHitTestSource(ctx context.Context, space xr.Space) (xr.HitTestSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.acquisitions++
	ended := s.ended
	s.mu.Unlock()

	if ended {
		return nil, xr.ErrSessionEnded
	}
	if !s.features.Has(xr.FeatureHitTest) {
		return nil, xr.ErrCapabilityUnavailable
	}
	if s.device.takeFailure() {
		return nil, fmt.Errorf("injected failure")
	}
	sp, ok := space.(Space)
	if !ok {
		return nil, fmt.Errorf("foreign reference space %T", space)
	}
	return &HitTestSource{space: sp}, nil
}

// OnEnd implements xr.Session
func (s *Session) OnEnd(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = append(s.onEnd, fn)
}

// End implements xr.Session. Callbacks run once; later calls are no-ops.
func (s *Session) End() error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil
	}
	s.ended = true
	callbacks := s.onEnd
	s.onEnd = nil
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	s.device.log.Debug().Msg("session ended")
	return nil
}

// Space is a simulated reference space. Local spaces coincide with the world;
// the viewer space follows the device.
type Space struct {
	kind xr.ReferenceSpaceType
}

// Type implements xr.Space
func (s Space) Type() xr.ReferenceSpaceType {
	return s.kind
}

// HitTestSource is a simulated standing hit-test request
type HitTestSource struct {
	mu        sync.Mutex
	space     Space
	cancelled bool
}

// Cancel implements xr.HitTestSource
func (h *HitTestSource) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelled = true
}

// Cancelled reports whether Cancel was called
func (h *HitTestSource) Cancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// Frame is a simulated tracking snapshot
type Frame struct {
	viewer   geometry.Pose
	poseLost bool
	env      []geometry.Triangle
}

// spacePose returns the pose of space's origin in the world
func (f *Frame) spacePose(space xr.Space) geometry.Transform {
	if space.Type() == xr.ReferenceSpaceViewer {
		return f.viewer.Transform()
	}
	return geometry.IdentityTransform()
}

// HitTestResults implements xr.Frame
func (f *Frame) HitTestResults(source xr.HitTestSource) []xr.HitTestResult {
	src, ok := source.(*HitTestSource)
	if !ok || src.Cancelled() {
		return nil
	}

	origin := f.spacePose(src.space)
	ray := geometry.Ray{
		Origin:    origin.Position(),
		Direction: geometry.PoseFromTransform(origin).Forward(),
	}

	type hit struct {
		dist   float64
		normal geometry.Vector3
	}
	var hits []hit
	for _, tri := range f.env {
		if dist, ok := tri.Intersect(ray); ok {
			normal := tri.SurfaceNormal()
			if normal.Dot(ray.Direction) > 0 {
				normal = normal.Mul(-1)
			}
			hits = append(hits, hit{dist: dist, normal: normal})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	results := make([]xr.HitTestResult, 0, len(hits))
	for i, h := range hits {
		// A ray through a shared edge hits both facets at the same point
		if i > 0 && h.dist-hits[i-1].dist < sameHitEpsilon {
			continue
		}
		world := geometry.Compose(ray.At(h.dist), geometry.QuaternionBetween(geometry.NewVector3(0, 1, 0), h.normal))
		results = append(results, &hitTestResult{frame: f, world: world})
	}
	return results
}

// ViewerPose implements xr.Frame
func (f *Frame) ViewerPose(space xr.Space) (geometry.Pose, error) {
	if f.poseLost {
		return geometry.Pose{}, xr.ErrPoseUnresolved
	}
	rel := f.spacePose(space).Inverse().Mul(f.viewer.Transform())
	return geometry.PoseFromTransform(rel), nil
}

type hitTestResult struct {
	frame *Frame
	world geometry.Transform
}

// Pose implements xr.HitTestResult
func (r *hitTestResult) Pose(space xr.Space) (geometry.Transform, error) {
	if r.frame.poseLost {
		return geometry.Transform{}, fmt.Errorf("%w: tracking lost", xr.ErrPoseUnresolved)
	}
	return r.frame.spacePose(space).Inverse().Mul(r.world), nil
}
