// Package world holds the shape population: shapes, their behaviors, the
// factories that pool them, and the registry that orders them.
//
// Everything here is driven from the single simulation goroutine; none of the
// types lock.
package world

import "math/rand/v2"

// Context is the per-tick environment threaded through behavior updates and
// spawning. It replaces any ambient "current game" lookup.
type Context struct {
	DT   float32 // seconds elapsed this tick
	Rand *rand.Rand
	Pop  *Registry
}

// Behaviors returns the behavior pools owned by the registry.
func (c *Context) Behaviors() *BehaviorPools {
	return c.Pop.behaviors
}
