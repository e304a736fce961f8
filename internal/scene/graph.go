package scene

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Graph is an in-memory Adapter keeping primitives in insertion order
type Graph struct {
	mu    sync.RWMutex
	nodes map[Handle]Primitive
	order []Handle
	log   zerolog.Logger
}

// NewGraph creates an empty graph
func NewGraph(log zerolog.Logger) *Graph {
	return &Graph{
		nodes: make(map[Handle]Primitive),
		log:   log.With().Str("component", "scene").Logger(),
	}
}

// Add implements Adapter
func (g *Graph) Add(p Primitive) Handle {
	h := Handle(uuid.NewString())

	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[h] = p
	g.order = append(g.order, h)
	g.log.Trace().Str("handle", string(h)).Stringer("kind", p.Kind).Msg("primitive added")
	return h
}

// Remove implements Adapter. Unknown handles are ignored.
func (g *Graph) Remove(h Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[h]; !ok {
		g.log.Debug().Str("handle", string(h)).Msg("remove of unknown primitive")
		return
	}
	delete(g.nodes, h)
	g.order = slices.DeleteFunc(g.order, func(x Handle) bool { return x == h })
	g.log.Trace().Str("handle", string(h)).Msg("primitive removed")
}

// Get returns the primitive behind a handle
func (g *Graph) Get(h Handle) (Primitive, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.nodes[h]
	return p, ok
}

// Len returns the number of registered primitives
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Count returns the number of registered primitives of one kind
func (g *Graph) Count(kind Kind) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, p := range g.nodes {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// Primitives returns a snapshot in insertion order
func (g *Graph) Primitives() []Primitive {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Primitive, 0, len(g.order))
	for _, h := range g.order {
		out = append(out, g.nodes[h])
	}
	return out
}
