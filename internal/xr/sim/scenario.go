// Package sim is a deterministic tracking runtime driven by scenario files.
// It casts the viewer's gaze ray against scripted surfaces so the measuring
// core can run without AR hardware.
package sim

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/philipparndt/armeasure/internal/xr"
	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/philipparndt/armeasure/pkg/stl"
	"gopkg.in/yaml.v3"
)

// Vec is a 3D vector written as a YAML sequence [x, y, z]
type Vec [3]float64

// Vector3 converts the sequence to a geometry vector
func (v Vec) Vector3() geometry.Vector3 {
	return geometry.NewVector3(v[0], v[1], v[2])
}

// Plane is a rectangular surface the device can detect
type Plane struct {
	Center Vec     `yaml:"center"`
	Normal Vec     `yaml:"normal"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Triangles splits the plane into two facets facing its normal
func (p Plane) Triangles() []geometry.Triangle {
	normal := p.Normal.Vector3().Normalize()
	if normal.Length() == 0 {
		normal = geometry.NewVector3(0, 1, 0)
	}
	rot := geometry.QuaternionBetween(geometry.NewVector3(0, 1, 0), normal)
	center := p.Center.Vector3()
	w, h := p.Width/2, p.Height/2

	corner := func(x, z float64) geometry.Vector3 {
		return center.Add(rot.Rotate(geometry.NewVector3(x, 0, z)))
	}
	a, b, c, d := corner(-w, -h), corner(-w, h), corner(w, h), corner(w, -h)

	return []geometry.Triangle{
		geometry.NewTriangle(normal, a, b, c),
		geometry.NewTriangle(normal, a, c, d),
	}
}

// Viewer is the scripted device pose. Angles are in degrees; pitch < 0 looks down.
type Viewer struct {
	Position Vec     `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`
	Pitch    float64 `yaml:"pitch"`
}

// Pose converts the viewer to a pose in the local space
func (v Viewer) Pose() geometry.Pose {
	return geometry.Pose{
		Position:    v.Position.Vector3(),
		Orientation: geometry.QuaternionFromEuler(degToRad(v.Yaw), degToRad(v.Pitch)),
	}
}

// Action is a user input recorded in a scenario frame
type Action string

const (
	ActionStart   Action = "start"
	ActionConfirm Action = "confirm"
	ActionReset   Action = "reset"
	ActionUndo    Action = "undo"
	ActionEnd     Action = "end"
)

// FrameSpec describes one displayed frame
type FrameSpec struct {
	Viewer Viewer `yaml:"viewer"`
	// Tracking false means no snapshot is available this frame
	Tracking *bool    `yaml:"tracking,omitempty"`
	PoseLost bool     `yaml:"poseLost,omitempty"`
	Actions  []Action `yaml:"actions,omitempty"`
}

// HasSnapshot reports whether tracking produced a frame snapshot
func (f FrameSpec) HasSnapshot() bool {
	return f.Tracking == nil || *f.Tracking
}

// Expectation is the optional outcome a replay is checked against
type Expectation struct {
	Readout string `yaml:"readout"`
	Points  *int   `yaml:"points,omitempty"`
}

// Scenario is a scripted AR session
type Scenario struct {
	Name             string       `yaml:"name"`
	Supported        *bool        `yaml:"supported,omitempty"`
	Features         []xr.Feature `yaml:"features,omitempty"`
	FailSession      bool         `yaml:"failSession,omitempty"`
	FailAcquisitions int          `yaml:"failAcquisitions,omitempty"`
	Planes           []Plane      `yaml:"planes,omitempty"`
	Mesh             string       `yaml:"mesh,omitempty"`
	Frames           []FrameSpec  `yaml:"frames"`
	Expect           *Expectation `yaml:"expect,omitempty"`

	// dir resolves Mesh relative to the scenario file
	dir string
}

// IsSupported reports whether the scripted device offers AR at all
func (s *Scenario) IsSupported() bool {
	return s.Supported == nil || *s.Supported
}

// AdvertisedFeatures returns the scripted feature set, defaulting to hit-test and local
func (s *Scenario) AdvertisedFeatures() xr.FeatureSet {
	if s.Features == nil {
		return xr.NewFeatureSet(xr.FeatureHitTest, xr.FeatureLocal)
	}
	return xr.NewFeatureSet(s.Features...)
}

// Environment returns every detectable surface facet: planes first, then the mesh
func (s *Scenario) Environment() ([]geometry.Triangle, error) {
	var tris []geometry.Triangle
	for _, p := range s.Planes {
		tris = append(tris, p.Triangles()...)
	}
	if s.Mesh != "" {
		path := s.Mesh
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		model, err := stl.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("loading mesh %s: %w", s.Mesh, err)
		}
		tris = append(tris, model.Triangles...)
	}
	return tris, nil
}

// LoadScenario reads a scenario file
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()

	return ParseScenario(f, filepath.Dir(path))
}

// ParseScenario decodes a scenario; dir is used to resolve a relative mesh path
func ParseScenario(r io.Reader, dir string) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	s.dir = dir

	for i, f := range s.Frames {
		for _, a := range f.Actions {
			switch a {
			case ActionStart, ActionConfirm, ActionReset, ActionUndo, ActionEnd:
			default:
				return nil, fmt.Errorf("frame %d: unknown action %q", i, a)
			}
		}
	}
	for i, p := range s.Planes {
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("plane %d: width and height must be positive", i)
		}
	}
	return &s, nil
}
