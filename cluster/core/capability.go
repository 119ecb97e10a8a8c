// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// closedChan is shared by all capabilities constructed already enabled.
var closedChan = make(chan struct{})

func init() {
	close(closedChan)
}

// Observer reacts to a capability becoming enabled. OnEnabled is invoked at
// most once, either during the enabling broadcast or synchronously inside
// Register when the capability is already enabled.
type Observer interface {
	OnEnabled()
}

// Capability tracks whether all the nodes the current one is aware of support
// a named feature. It starts pending and transitions to enabled exactly once;
// there is no way back. Subsystems either await the shared channel returned by
// WhenEnabled or attach an Observer, and may do so before or after the
// transition.
type Capability struct {
	name string

	mu        sync.Mutex
	enabled   bool
	enabledCh chan struct{}
	observers []*Registration // connected, in registration order
}

// NewCapability returns a capability gate in the given initial state. A gate
// constructed already enabled sends no notification at construction; observers
// registered against it later fire immediately.
func NewCapability(name string, enabled bool) *Capability {
	c := &Capability{name: name, enabledCh: make(chan struct{})}
	if enabled {
		c.enabled = true
		c.enabledCh = closedChan
	}
	return c
}

// Name returns the capability identifier, used as an equality key and log label.
func (c *Capability) Name() string {
	return c.name
}

// IsEnabled reports whether cluster-wide support has been agreed.
func (c *Capability) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *Capability) String() string {
	return fmt.Sprintf("{ cluster capability = %s }", c.name)
}

// WhenEnabled returns a channel that is closed once the capability is enabled.
// All callers share the same channel; for a capability constructed enabled it
// is closed from the start.
func (c *Capability) WhenEnabled() <-chan struct{} {
	return c.enabledCh
}

// Enable marks the capability as supported by the whole cluster: the shared
// channel is closed first, then every currently connected observer runs, in
// registration order, on the calling goroutine. Each registration is
// disconnected before its OnEnabled runs, so a reaction may cancel its own
// registration or register new observers on the same capability without
// deadlock or double delivery. Observers registered from inside a reaction are
// not part of the in-progress broadcast; the capability is already enabled at
// that point, so they fire inside their own Register call instead.
//
// Enabling an already enabled capability is a no-op: the negotiation layer may
// re-announce agreement under retried consensus rounds.
func (c *Capability) Enable() {
	c.mu.Lock()
	if c.enabled {
		c.mu.Unlock()
		log.WithField("capability", c.name).Warn("Duplicate enable ignored")
		return
	}
	c.enabled = true
	close(c.enabledCh)
	fired := c.observers
	c.observers = nil
	for _, r := range fired {
		r.connected = false
	}
	c.mu.Unlock()

	for _, r := range fired {
		r.observer.OnEnabled()
	}
}

// Register connects an observer to the capability. If the capability is
// already enabled the observer fires synchronously before Register returns,
// and the returned registration is already detached. Otherwise the observer
// waits for Enable; cancelling the registration before then is the only way to
// withdraw it.
func (c *Capability) Register(observer Observer) *Registration {
	r := &Registration{capability: c, observer: observer}
	c.mu.Lock()
	if c.enabled {
		c.mu.Unlock()
		observer.OnEnabled()
		return r
	}
	r.connected = true
	c.observers = append(c.observers, r)
	c.mu.Unlock()
	return r
}

// RegisterFunc registers a plain function as an observer. The returned
// registration owns the closure; cancel it to withdraw the callback before the
// capability enables. Cancelling after the callback fired is a safe no-op.
func (c *Capability) RegisterFunc(fn func()) *Registration {
	return c.Register(observerFunc(fn))
}

type observerFunc func()

func (f observerFunc) OnEnabled() {
	f()
}

// Registration is one live subscription of an Observer to a Capability. It is
// detached automatically immediately before the observer fires, or early via
// Cancel. A connected Registration must not be copied.
type Registration struct {
	capability *Capability
	observer   Observer
	connected  bool // guarded by capability.mu
}

// Cancel withdraws the observer if it has not fired yet. Cancelling twice, or
// after the observer fired, is a no-op. Other observers on the same capability
// are unaffected and keep their delivery order.
func (r *Registration) Cancel() {
	c := r.capability
	c.mu.Lock()
	defer c.mu.Unlock()
	if !r.connected {
		return
	}
	r.connected = false
	for i, reg := range c.observers {
		if reg == r {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			break
		}
	}
}
