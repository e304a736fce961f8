// Package hittest owns the single hit-test source of a tracking session and
// turns each frame's first-ranked intersection into a HitResult.
package hittest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/philipparndt/armeasure/internal/xr"
	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/rs/zerolog"
)

// HitResult is the decomposed pose of the nearest surface intersection
type HitResult struct {
	Position    geometry.Vector3
	Orientation geometry.Quaternion
	Transform   geometry.Transform
}

// Engine manages the hit-test source lifecycle. Failures are logged and
// returned for inspection, and otherwise surface as "no result".
type Engine struct {
	mu          sync.Mutex
	source      xr.HitTestSource
	requested   bool
	pending     bool
	generation  uint64 // bumped by Dispose
	lastResults []xr.HitTestResult
	log         zerolog.Logger
}

// NewEngine creates an engine without a source
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "hittest").Logger()}
}

// Requested reports whether a source was acquired and not disposed
func (e *Engine) Requested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requested
}

// RequestSource acquires a viewer-anchored hit-test source. It is a no-op
// while a source exists or an acquisition is in flight. A missing capability
// returns xr.ErrCapabilityUnavailable; a rejected request returns an error
// wrapping xr.ErrAcquisitionFailed and may be retried. When Dispose runs
// during the acquisition the late source is cancelled and the error also
// wraps xr.ErrSessionEnded.
func (e *Engine) RequestSource(ctx context.Context, session xr.Session) error {
	e.mu.Lock()
	if e.requested || e.pending {
		e.mu.Unlock()
		return nil
	}
	if !session.EnabledFeatures().Has(xr.FeatureHitTest) {
		e.mu.Unlock()
		e.log.Warn().Str("feature", string(xr.FeatureHitTest)).Msg("hit-test capability unavailable")
		return xr.ErrCapabilityUnavailable
	}
	e.pending = true
	generation := e.generation
	e.mu.Unlock()

	source, err := acquire(ctx, session)

	e.mu.Lock()
	defer e.mu.Unlock()
	if generation != e.generation {
		// Disposed while acquiring: the source belongs to an ended session
		if source != nil {
			source.Cancel()
			e.log.Debug().Msg("hit-test source acquired after dispose, cancelled")
		}
		return fmt.Errorf("%w: %w", xr.ErrAcquisitionFailed, xr.ErrSessionEnded)
	}
	e.pending = false
	if err != nil {
		e.log.Warn().Err(err).Msg("hit-test source acquisition failed")
		return err
	}
	e.source = source
	e.requested = true
	e.log.Info().Msg("hit-test source ready")
	return nil
}

func acquire(ctx context.Context, session xr.Session) (xr.HitTestSource, error) {
	space, err := session.RequestReferenceSpace(ctx, xr.ReferenceSpaceViewer)
	if err != nil {
		return nil, fmt.Errorf("%w: viewer space: %w", xr.ErrAcquisitionFailed, err)
	}
	source, err := session.RequestHitTestSource(ctx, space)
	if err != nil {
		if errors.Is(err, xr.ErrAcquisitionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", xr.ErrAcquisitionFailed, err)
	}
	return source, nil
}

// Poll returns the first-ranked intersection of frame resolved against space.
// It reports false when there is no source, no intersection, or the pose
// cannot be resolved this frame.
func (e *Engine) Poll(frame xr.Frame, space xr.Space) (HitResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.source == nil {
		return HitResult{}, false
	}

	results := frame.HitTestResults(e.source)
	e.lastResults = results
	if len(results) == 0 {
		return HitResult{}, false
	}

	transform, err := results[0].Pose(space)
	if err != nil {
		e.log.Trace().Err(err).Msg("hit pose unresolved")
		return HitResult{}, false
	}

	position, orientation := transform.Decompose()
	return HitResult{
		Position:    position,
		Orientation: orientation,
		Transform:   transform,
	}, true
}

// LastResults returns the raw intersections of the most recent Poll
func (e *Engine) LastResults() []xr.HitTestResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]xr.HitTestResult(nil), e.lastResults...)
}

// Dispose cancels the source and allows a new request. A source still being
// acquired is cancelled once it arrives. Safe to call repeatedly.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	e.pending = false
	if e.source != nil {
		e.source.Cancel()
		e.log.Debug().Msg("hit-test source cancelled")
	}
	e.source = nil
	e.requested = false
	e.lastResults = nil
}
