package sim

import (
	"context"

	"github.com/philipparndt/armeasure/internal/xr"
)

// Target receives the scripted input and frames of a scenario
type Target interface {
	StartTracking(ctx context.Context) error
	ConfirmPoint()
	Reset()
	Undo()
	Frame(frame xr.Frame)
}

// Player replays a scenario frame by frame against a target
type Player struct {
	device   *Device
	scenario *Scenario
	target   Target
	next     int

	// OnStartError observes StartTracking failures; they never stop the replay
	OnStartError func(err error)
}

// NewPlayer creates a player for the scenario the device was built from
func NewPlayer(device *Device, target Target) *Player {
	return &Player{device: device, scenario: device.scenario, target: target}
}

// Done reports whether every frame was played
func (p *Player) Done() bool {
	return p.next >= len(p.scenario.Frames)
}

// Index returns the number of frames played so far
func (p *Player) Index() int {
	return p.next
}

// Step plays the next frame: input actions first, then the frame callback.
// It returns false once the scenario is exhausted.
func (p *Player) Step(ctx context.Context) bool {
	if p.Done() {
		return false
	}
	spec := p.scenario.Frames[p.next]
	p.next++

	p.device.SetViewer(spec.Viewer.Pose())
	p.device.SetPoseLost(spec.PoseLost)

	for _, action := range spec.Actions {
		switch action {
		case ActionStart:
			if err := p.target.StartTracking(ctx); err != nil && p.OnStartError != nil {
				p.OnStartError(err)
			}
		case ActionConfirm:
			p.target.ConfirmPoint()
		case ActionReset:
			p.target.Reset()
		case ActionUndo:
			p.target.Undo()
		case ActionEnd:
			if s := p.device.Session(); s != nil {
				_ = s.End()
			}
		}
	}

	var frame xr.Frame
	if spec.HasSnapshot() && p.sessionActive() {
		frame = p.device.Snapshot()
	}
	p.target.Frame(frame)
	return true
}

// Run plays every remaining frame or stops when ctx is done
func (p *Player) Run(ctx context.Context) error {
	for p.Step(ctx) {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) sessionActive() bool {
	s := p.device.Session()
	return s != nil && !s.Ended()
}
