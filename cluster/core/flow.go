// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
)

// ErrBootstrapTimeout returned when cluster formation is abandoned on deadline.
var ErrBootstrapTimeout = errors.New("ErrBootstrapTimeout")

// BootstrapFlowSynchronization wraps the cluster-formation barrier: the daemon
// can await the operator-configured number of nodes announcing themselves
// before it treats the initial capability agreement as meaningful.
type BootstrapFlowSynchronization interface {
	SetExpectedNodeCount(uint16) error

	NodeAnnounced() error
	AwaitClusterFormed() error
	AwaitClusterFormedWithDeadline(context.Context) error

	CancelWithError(error)
	Clear()
}

type bootstrapFlowSynchronizationImpl struct {
	nodesAnnouncedGate Gate
}

// SetExpectedNodeCount notifies the bootstrap flow that N nodes are expected
// to announce themselves during cluster formation.
func (s *bootstrapFlowSynchronizationImpl) SetExpectedNodeCount(count uint16) error {
	return s.nodesAnnouncedGate.SetCount(count)
}

// NodeAnnounced called when a node announces its capability set for the first time.
func (s *bootstrapFlowSynchronizationImpl) NodeAnnounced() error {
	return s.nodesAnnouncedGate.WalkThrough()
}

// AwaitClusterFormed awaits the expected number of node announcements.
func (s *bootstrapFlowSynchronizationImpl) AwaitClusterFormed() error {
	return s.nodesAnnouncedGate.AwaitGateCondition()
}

// AwaitClusterFormedWithDeadline awaits cluster formation until the context
// expires, canceling the flow on timeout.
func (s *bootstrapFlowSynchronizationImpl) AwaitClusterFormedWithDeadline(ctx context.Context) error {
	var err error
	errorChan := make(chan error)

	go func() {
		errorChan <- s.nodesAnnouncedGate.AwaitGateCondition()
	}()

	select {
	case err = <-errorChan:
	case <-ctx.Done():
		err = ErrBootstrapTimeout
		s.CancelWithError(err)
	}

	return err
}

// CancelWithError cancels the formation barrier with an error.
func (s *bootstrapFlowSynchronizationImpl) CancelWithError(err error) {
	s.nodesAnnouncedGate.CancelWithError(err)
}

// Clear gates state.
func (s *bootstrapFlowSynchronizationImpl) Clear() {
	s.nodesAnnouncedGate.Clear()
}

// NewBootstrapFlowSynchronization returns new BootstrapFlowSynchronization
// instance. The expected node count starts at the permitted maximum; call
// SetExpectedNodeCount once the cluster size is known.
func NewBootstrapFlowSynchronization() BootstrapFlowSynchronization {
	return &bootstrapFlowSynchronizationImpl{
		nodesAnnouncedGate: NewGate(maxNodesLimit),
	}
}
