// Package xr defines the contract between the measuring core and a device
// tracking runtime: capability discovery, sessions, reference spaces,
// hit-test sources and per-frame snapshots.
package xr

import (
	"context"
	"errors"

	"github.com/philipparndt/armeasure/pkg/geometry"
)

var (
	// ErrCapabilityUnavailable means the device or session lacks hit-testing
	ErrCapabilityUnavailable = errors.New("hit-test capability unavailable")
	// ErrAcquisitionFailed means a reference space or hit-test source request was rejected
	ErrAcquisitionFailed = errors.New("hit-test source acquisition failed")
	// ErrPoseUnresolved means a pose cannot be expressed in the requested space
	ErrPoseUnresolved = errors.New("pose unresolved")
	// ErrSessionStartFailed means the tracking session could not be created
	ErrSessionStartFailed = errors.New("tracking session start failed")
	// ErrSessionEnded is returned by requests made after the session ended
	ErrSessionEnded = errors.New("tracking session ended")
)

// Mode is the kind of session requested from a provider
type Mode string

// ModeImmersiveAR is a handheld or head-mounted AR session
const ModeImmersiveAR Mode = "immersive-ar"

// Feature identifies an optional session capability
type Feature string

const (
	FeatureHitTest    Feature = "hit-test"
	FeatureDOMOverlay Feature = "dom-overlay"
	FeatureLocal      Feature = "local"
	FeatureAnchors    Feature = "anchors"
)

// FeatureSet is the set of capabilities a session advertises
type FeatureSet map[Feature]struct{}

// NewFeatureSet creates a set holding the given features
func NewFeatureSet(features ...Feature) FeatureSet {
	s := make(FeatureSet, len(features))
	for _, f := range features {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether the set contains f
func (s FeatureSet) Has(f Feature) bool {
	_, ok := s[f]
	return ok
}

// ReferenceSpaceType selects the origin a reference space is anchored to
type ReferenceSpaceType string

const (
	ReferenceSpaceViewer     ReferenceSpaceType = "viewer"
	ReferenceSpaceLocal      ReferenceSpaceType = "local"
	ReferenceSpaceLocalFloor ReferenceSpaceType = "local-floor"
)

// Space is a coordinate system poses can be expressed in
type Space interface {
	Type() ReferenceSpaceType
}

// HitTestSource is a standing hit-test request. Cancel releases it.
type HitTestSource interface {
	Cancel()
}

// HitTestResult is one ranked intersection with a detected surface
type HitTestResult interface {
	// Pose resolves the intersection against space. It returns an error
	// wrapping ErrPoseUnresolved when tracking cannot relate the two.
	Pose(space Space) (geometry.Transform, error)
}

// Frame is the tracking snapshot for one displayed frame
type Frame interface {
	// HitTestResults returns the intersections for source, nearest first
	HitTestResults(source HitTestSource) []HitTestResult
	// ViewerPose returns the viewer pose in space
	ViewerPose(space Space) (geometry.Pose, error)
}

// SessionInit lists the features a caller needs and would like
type SessionInit struct {
	RequiredFeatures []Feature
	OptionalFeatures []Feature
}

// Session is a running tracking session
type Session interface {
	EnabledFeatures() FeatureSet
	RequestReferenceSpace(ctx context.Context, kind ReferenceSpaceType) (Space, error)
	RequestHitTestSource(ctx context.Context, space Space) (HitTestSource, error)
	// OnEnd registers fn to run once when the session ends
	OnEnd(fn func())
	End() error
}

// Provider creates tracking sessions
type Provider interface {
	IsSessionSupported(ctx context.Context, mode Mode) (bool, error)
	RequestSession(ctx context.Context, mode Mode, init SessionInit) (Session, error)
}
