// Package session holds process-wide shared state as an explicitly owned
// context object: the deploying flag bracketing deployment cycles and the
// per-game activator mapping. Components receive a *Context instead of
// reaching for ambient globals, which keeps the re-entrancy guard testable
// in isolation.
package session

import (
	"sync"
	"time"
)

// DefaultSettleDelay is the grace period after a deployment cycle completes
// before the deploying flag drops, letting other completion handlers finish
// before new launches are allowed.
const DefaultSettleDelay = 2 * time.Second

// Context is the shared state for one host process.
type Context struct {
	Activators *ActivatorStore

	settleDelay time.Duration

	mu         sync.Mutex
	activeGame string
	deploying  bool
	settle     *time.Timer
}

// NewContext creates a session context. settleDelay <= 0 selects the default.
func NewContext(settleDelay time.Duration) *Context {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &Context{
		Activators:  NewActivatorStore(),
		settleDelay: settleDelay,
	}
}

// SetActiveGame records the game the host currently manages.
func (c *Context) SetActiveGame(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeGame = gameID
}

// ActiveGame returns the game the host currently manages.
func (c *Context) ActiveGame() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeGame
}

// BeginDeployment marks a deployment cycle as in flight. A pending settle
// reset from a previous cycle is discarded.
func (c *Context) BeginDeployment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	c.deploying = true
}

// EndDeployment schedules the deploying flag to drop after the settle delay.
// The flag stays true during the delay so launch attempts racing with cycle
// completion still see a deployment in flight.
func (c *Context) EndDeployment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settle != nil {
		c.settle.Stop()
	}
	c.settle = time.AfterFunc(c.settleDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.deploying = false
		c.settle = nil
	})
}

// Deploying reports whether a deployment cycle is in flight or still inside
// its settle window.
func (c *Context) Deploying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deploying
}
