// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"math"
	"sync"
)

const maxNodesLimit uint16 = math.MaxUint16

// ErrGateIntegrity returned when arrivals and the expected count disagree.
var ErrGateIntegrity = errors.New("ErrGateIntegrity")

// ErrGateCanceled returned to waiters when the gate is canceled.
var ErrGateCanceled = errors.New("ErrGateCanceled")

// Gate is a counting barrier: it blocks waiters until the expected number of
// arrivals walked through. Used by cluster formation to hold back agreement
// evaluation until every expected node has announced itself.
type Gate interface {
	SetCount(uint16) error
	WalkThrough() error
	AwaitGateCondition() error
	CancelWithError(error)
	Reset()
	Clear()
}

type gateImpl struct {
	count         uint16
	arrived       uint16
	gateCondition *sync.Cond
	canceled      bool
	err           error
}

// SetCount sets the expected number of arrivals on the gate.
func (g *gateImpl) SetCount(count uint16) error {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	if count > maxNodesLimit || count < g.arrived {
		return ErrGateIntegrity
	}
	g.count = count
	return nil
}

// WalkThrough records one arrival without awaiting others.
func (g *gateImpl) WalkThrough() error {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	if g.arrived == g.count {
		return ErrGateIntegrity
	}

	g.arrived++

	if g.arrived == g.count {
		g.gateCondition.Broadcast()
	}

	return nil
}

// AwaitGateCondition suspends the calling goroutine until the gate condition
// is met or the gate is canceled via CancelWithError.
func (g *gateImpl) AwaitGateCondition() error {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	for g.arrived != g.count && !g.canceled {
		g.gateCondition.Wait()
	}

	if g.canceled {
		if g.err != nil {
			return g.err
		}
		return ErrGateCanceled
	}

	return nil
}

// CancelWithError cancels the gate condition with an error and awakes
// suspended goroutines.
func (g *gateImpl) CancelWithError(err error) {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	g.canceled = true
	g.err = err
	g.gateCondition.Broadcast()
}

// Reset the arrival counter, keeping a canceled gate canceled.
func (g *gateImpl) Reset() {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	if !g.canceled {
		g.arrived = 0
	}
}

// Clear gate state.
func (g *gateImpl) Clear() {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	g.canceled = false
	g.arrived = 0
	g.err = nil
}

// NewGate returns new gate instance expecting count arrivals.
func NewGate(count uint16) Gate {
	return &gateImpl{
		count:         count,
		gateCondition: sync.NewCond(&sync.Mutex{}),
	}
}
