package engine

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Route is one entry of the modulation routing table: a modulator
// channel feeding a grid target with a signed depth.
type Route struct {
	ID uuid.UUID

	SourceSlot    int // 0-based modulator slot index
	SourceChannel int // 0..3

	TargetIndex int // 0..148

	Depth    float32 // [-1, 1]
	Inverted bool
	Enabled  bool
}

// routeTable is the copy-on-write routing list: the audio thread holds a
// shared reference for the duration of a block; the control thread
// publishes a new slice (never mutates in place) on add/remove.
type routeTable struct {
	pub atomic.Pointer[[]Route]
}

func newRouteTable() *routeTable {
	rt := &routeTable{}
	empty := []Route{}
	rt.pub.Store(&empty)
	return rt
}

// Load returns the routing list snapshot for this block.
func (rt *routeTable) Load() []Route {
	return *rt.pub.Load()
}

// Add appends a new enabled route and publishes the new list.
func (rt *routeTable) Add(sourceSlot, sourceChannel, targetIndex int, depth float32) Route {
	r := Route{
		ID:            uuid.New(),
		SourceSlot:    sourceSlot,
		SourceChannel: sourceChannel,
		TargetIndex:   targetIndex,
		Depth:         depth,
		Enabled:       true,
	}
	prev := *rt.pub.Load()
	next := make([]Route, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, r)
	rt.pub.Store(&next)
	return r
}

// Remove drops every route matching (sourceSlot, sourceChannel, targetIndex).
func (rt *routeTable) Remove(sourceSlot, sourceChannel, targetIndex int) {
	prev := *rt.pub.Load()
	next := make([]Route, 0, len(prev))
	for _, r := range prev {
		if r.SourceSlot == sourceSlot && r.SourceChannel == sourceChannel && r.TargetIndex == targetIndex {
			continue
		}
		next = append(next, r)
	}
	rt.pub.Store(&next)
}

// All returns every route currently published, for full-state replay.
func (rt *routeTable) All() []Route {
	return append([]Route(nil), rt.Load()...)
}
