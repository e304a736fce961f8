// Package measurement implements the two-point measuring state machine and
// owns every marker, line and label it places.
package measurement

import (
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/pkg/geometry"
	"github.com/rs/zerolog"
)

// Session is a two-point measurement. It is the only writer of its points
// and segments and removes every primitive it created.
type Session struct {
	adapter  scene.Adapter
	labels   scene.LabelFactory
	style    Style
	points   []Point
	segments []Segment
	log      zerolog.Logger
}

// NewSession creates an idle session
func NewSession(adapter scene.Adapter, labels scene.LabelFactory, style Style, log zerolog.Logger) *Session {
	return &Session{
		adapter: adapter,
		labels:  labels,
		style:   style,
		log:     log.With().Str("component", "measurement").Logger(),
	}
}

// State derives the phase from the number of points
func (s *Session) State() State {
	switch len(s.points) {
	case 0:
		return Idle
	case 1:
		return OnePointPlaced
	}
	return Completed
}

// Points returns a copy of the confirmed points
func (s *Session) Points() []Point {
	return append([]Point(nil), s.points...)
}

// Segments returns a copy of the segments
func (s *Session) Segments() []Segment {
	return append([]Segment(nil), s.segments...)
}

// LastDistance returns the distance of the most recent segment
func (s *Session) LastDistance() (float64, bool) {
	if len(s.segments) == 0 {
		return 0, false
	}
	return s.segments[len(s.segments)-1].Distance, true
}

// AddPoint confirms a point and returns the point count. The second point
// completes the measurement; further calls are ignored until Clear.
func (s *Session) AddPoint(position geometry.Vector3) int {
	if s.State() == Completed {
		s.log.Debug().Stringer("position", position).Msg("measurement complete, point ignored")
		return len(s.points)
	}

	s.points = append(s.points, Point{
		Position: position,
		Marker:   s.addMarker(position),
	})
	s.log.Debug().Int("count", len(s.points)).Stringer("position", position).Msg("point added")

	if len(s.points) == maxPoints {
		s.addSegment(s.points[0].Position, s.points[1].Position)
	}
	return len(s.points)
}

func (s *Session) addMarker(position geometry.Vector3) scene.Handle {
	return s.adapter.Add(scene.Primitive{
		Kind:      scene.KindMarker,
		Transform: geometry.Translation(position),
		Color:     scene.ColorMarker,
		Size:      s.style.MarkerRadius,
	})
}

func (s *Session) addSegment(start, end geometry.Vector3) {
	distance := start.Distance(end)

	line := s.adapter.Add(scene.Primitive{
		Kind:      scene.KindLine,
		Transform: geometry.IdentityTransform(),
		Color:     scene.ColorLine,
		Size:      s.style.LineWidth,
		From:      start,
		To:        end,
	})
	label := s.adapter.Add(s.labels.NewLabel(FormatLabel(distance), start.Midpoint(end)))

	s.segments = append(s.segments, Segment{
		Start:    start,
		End:      end,
		Distance: distance,
		Line:     line,
		Label:    label,
	})
	s.log.Info().Float64("meters", distance).Str("label", FormatLabel(distance)).Msg("measurement completed")
}

// Clear removes every owned primitive and returns to Idle
func (s *Session) Clear() {
	for _, p := range s.points {
		s.adapter.Remove(p.Marker)
	}
	for _, seg := range s.segments {
		s.removeSegment(seg)
	}
	s.points = nil
	s.segments = nil
}

// RemoveLastMeasurement undoes one step: the last marker, then the segment
// when the removed point was the one that completed a pair, then the point.
func (s *Session) RemoveLastMeasurement() {
	n := len(s.points)
	if n == 0 {
		return
	}

	last := s.points[n-1]
	s.adapter.Remove(last.Marker)

	if n%2 == 0 && len(s.segments) > 0 {
		seg := s.segments[len(s.segments)-1]
		s.removeSegment(seg)
		s.segments = s.segments[:len(s.segments)-1]
	}

	s.points = s.points[:n-1]
	s.log.Debug().Int("count", len(s.points)).Msg("last point removed")
}

func (s *Session) removeSegment(seg Segment) {
	s.adapter.Remove(seg.Line)
	s.adapter.Remove(seg.Label)
}
