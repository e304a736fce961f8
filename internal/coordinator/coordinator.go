// Package coordinator drives hit-testing, measuring and rendering once per
// displayed frame and maps the user actions onto the measuring state.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/philipparndt/armeasure/internal/config"
	"github.com/philipparndt/armeasure/internal/hittest"
	"github.com/philipparndt/armeasure/internal/measurement"
	"github.com/philipparndt/armeasure/internal/planes"
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/internal/xr"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Scene is the render graph the coordinator adds to and draws from
type Scene interface {
	scene.Adapter
	Primitives() []scene.Primitive
}

// Options are the collaborators of a Coordinator
type Options struct {
	Provider xr.Provider
	Scene    Scene
	Renderer scene.Renderer
	// Labels defaults to texture labels scaled by Config.Style.LabelScale
	Labels scene.LabelFactory
	// Readout may be nil
	Readout Readout
	Config  config.Config
	Log     zerolog.Logger
}

// Coordinator owns the hit-test engine, the measurement session and the
// plane reticle of one application run
type Coordinator struct {
	provider xr.Provider
	scene    Scene
	renderer scene.Renderer
	readout  Readout
	cfg      config.Config
	log      zerolog.Logger

	engine  *hittest.Engine
	session *measurement.Session
	planes  *planes.Registry

	mu          sync.Mutex
	ctx         Context
	starting    bool
	confirm     bool
	readoutText string

	frames    metric.Int64Counter
	hits      metric.Int64Counter
	points    metric.Int64Counter
	completed metric.Int64Counter
	failures  metric.Int64Counter
}

// New wires a coordinator. Metrics go to the global OTel meter provider
// (no-op when none is configured).
func New(opts Options) (*Coordinator, error) {
	if opts.Provider == nil || opts.Scene == nil || opts.Renderer == nil {
		return nil, errors.New("coordinator needs a provider, a scene and a renderer")
	}

	labels := opts.Labels
	if labels == nil {
		labels = scene.NewTextureLabels(opts.Config.Style.LabelScale)
	}
	style := measurement.Style{
		MarkerRadius: opts.Config.Style.MarkerRadius,
		LineWidth:    opts.Config.Style.LineWidth,
	}

	c := &Coordinator{
		provider:    opts.Provider,
		scene:       opts.Scene,
		renderer:    opts.Renderer,
		readout:     opts.Readout,
		cfg:         opts.Config,
		log:         opts.Log.With().Str("component", "coordinator").Logger(),
		engine:      hittest.NewEngine(opts.Log),
		session:     measurement.NewSession(opts.Scene, labels, style, opts.Log),
		planes:      planes.NewRegistry(opts.Scene),
		readoutText: measurement.ReadoutReset,
	}

	m := meter()
	var err error

	c.frames, err = m.Int64Counter("armeasure.frames",
		metric.WithDescription("Frames processed"))
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}
	c.hits, err = m.Int64Counter("armeasure.hits",
		metric.WithDescription("Frames with a surface hit"))
	if err != nil {
		return nil, fmt.Errorf("creating hits counter: %w", err)
	}
	c.points, err = m.Int64Counter("armeasure.points.confirmed",
		metric.WithDescription("Measurement points placed"))
	if err != nil {
		return nil, fmt.Errorf("creating points counter: %w", err)
	}
	c.completed, err = m.Int64Counter("armeasure.measurements.completed",
		metric.WithDescription("Two-point measurements completed"))
	if err != nil {
		return nil, fmt.Errorf("creating completed counter: %w", err)
	}
	c.failures, err = m.Int64Counter("armeasure.tracking.failures",
		metric.WithDescription("Tracking start failures by kind"))
	if err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}

	return c, nil
}

// Context returns a copy of the current context
func (c *Coordinator) Context() Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

// Readout returns the text last shown on the readout
func (c *Coordinator) Readout() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readoutText
}

// Engine returns the hit-test engine
func (c *Coordinator) Engine() *hittest.Engine { return c.engine }

// Measurement returns the measurement session
func (c *Coordinator) Measurement() *measurement.Session { return c.session }

// Planes returns the plane reticle registry
func (c *Coordinator) Planes() *planes.Registry { return c.planes }

// StartTracking starts a session if none is running and acquires the
// hit-test source. While a session runs without a source (a previous
// acquisition failed) it retries the acquisition.
func (c *Coordinator) StartTracking(ctx context.Context) error {
	c.mu.Lock()
	if c.ctx.Unsupported {
		err := c.ctx.Err
		c.mu.Unlock()
		return err
	}
	if c.starting {
		c.mu.Unlock()
		return nil
	}
	c.starting = true
	session := c.ctx.Session
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.starting = false
		c.mu.Unlock()
	}()

	if session == nil {
		var err error
		session, err = c.startSession(ctx)
		if err != nil {
			c.fail(err)
			return err
		}
	}

	if err := c.engine.RequestSource(ctx, session); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	c.ctx.Err = nil
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) startSession(ctx context.Context) (xr.Session, error) {
	supported, err := c.provider.IsSessionSupported(ctx, xr.ModeImmersiveAR)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", xr.ErrSessionStartFailed, err)
	}
	if !supported {
		return nil, fmt.Errorf("%w: %s sessions not supported", xr.ErrCapabilityUnavailable, xr.ModeImmersiveAR)
	}

	session, err := c.provider.RequestSession(ctx, xr.ModeImmersiveAR, xr.SessionInit{
		RequiredFeatures: []xr.Feature{xr.FeatureLocal},
		OptionalFeatures: []xr.Feature{xr.FeatureHitTest, xr.FeatureDOMOverlay, xr.FeatureAnchors},
	})
	if err != nil {
		if errors.Is(err, xr.ErrSessionStartFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", xr.ErrSessionStartFailed, err)
	}

	space, err := session.RequestReferenceSpace(ctx, xr.ReferenceSpaceLocal)
	if err != nil {
		_ = session.End()
		return nil, fmt.Errorf("%w: local space: %w", xr.ErrSessionStartFailed, err)
	}

	var once sync.Once
	session.OnEnd(func() {
		once.Do(func() { c.endSession(session) })
	})

	c.mu.Lock()
	c.ctx.Session = session
	c.ctx.Space = space
	c.ctx.Tracking = true
	c.mu.Unlock()

	c.log.Info().Msg("tracking session started")
	return session, nil
}

func (c *Coordinator) endSession(session xr.Session) {
	c.engine.Dispose()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx.Session != session {
		return
	}
	c.ctx.Session = nil
	c.ctx.Space = nil
	c.ctx.Tracking = false
	c.ctx.Measuring = false
	c.confirm = false
	c.planes.ClearAll()
	c.log.Info().Msg("tracking session ended")
}

// fail records err; start and capability failures make AR unsupported
func (c *Coordinator) fail(err error) {
	kind := "acquisition"
	unsupported := false
	switch {
	case errors.Is(err, xr.ErrSessionStartFailed):
		kind, unsupported = "session", true
	case errors.Is(err, xr.ErrCapabilityUnavailable):
		kind, unsupported = "capability", true
	}
	c.failures.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx.Err = err
	if unsupported {
		c.ctx.Unsupported = true
		c.log.Warn().Err(err).Msg("AR measuring unsupported")
		return
	}
	c.log.Warn().Err(err).Msg("hit-test not ready, start again to retry")
}

// EndTracking ends the running session, if any
func (c *Coordinator) EndTracking() error {
	c.mu.Lock()
	session := c.ctx.Session
	c.mu.Unlock()
	if session == nil {
		return nil
	}
	return session.End()
}

// ConfirmPoint begins measuring if needed and asks the next frame to place
// a point at its hit. A completed measurement is cleared first.
func (c *Coordinator) ConfirmPoint() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ctx.Tracking || c.ctx.Unsupported {
		c.log.Debug().Msg("confirm ignored, not tracking")
		return
	}
	if !c.ctx.Measuring {
		if c.session.State() == measurement.Completed {
			c.clear()
		}
		c.ctx.Measuring = true
	}
	c.confirm = true
}

// Reset clears the measurement, the reticle and the readout
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

func (c *Coordinator) clear() {
	c.session.Clear()
	c.planes.ClearAll()
	c.ctx.Measuring = false
	c.confirm = false
	c.setReadout(measurement.ReadoutReset)
}

// Undo removes the last placed point and resumes measuring if one remains
func (c *Coordinator) Undo() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.RemoveLastMeasurement()
	c.ctx.Measuring = c.ctx.Tracking && len(c.session.Points()) > 0
	c.confirm = false
}

// Frame processes one displayed frame. A nil frame means tracking is not
// available yet; the scene is rendered as is. Frame never fails.
func (c *Coordinator) Frame(frame xr.Frame) {
	c.frames.Add(context.Background(), 1)

	c.mu.Lock()
	confirm := c.confirm
	c.confirm = false
	if frame != nil && c.ctx.Tracking {
		c.step(frame, confirm)
	}
	c.mu.Unlock()

	if err := c.renderer.Render(c.scene.Primitives()); err != nil {
		c.log.Error().Err(err).Msg("render failed")
	}
}

func (c *Coordinator) step(frame xr.Frame, confirm bool) {
	hit, ok := c.engine.Poll(frame, c.ctx.Space)
	if ok {
		c.hits.Add(context.Background(), 1)
	}

	if c.cfg.Planes.Visualize {
		c.planes.ClearAll()
		if ok {
			c.planes.CreateMarker(hit.Position, hit.Orientation, planes.Size{
				Width:  c.cfg.Planes.Width,
				Height: c.cfg.Planes.Height,
			})
		}
	}

	if !ok || !confirm || !c.ctx.Measuring {
		return
	}

	c.session.AddPoint(hit.Position)
	c.points.Add(context.Background(), 1)

	if c.session.State() != measurement.Completed {
		return
	}
	c.ctx.Measuring = false
	if distance, ok := c.session.LastDistance(); ok {
		c.completed.Add(context.Background(), 1)
		c.setReadout(measurement.FormatReadout(distance))
	}
}

func (c *Coordinator) setReadout(text string) {
	c.readoutText = text
	if c.readout != nil {
		c.readout.SetReadout(text)
	}
}
