// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestBootstrapFlowClusterFormed(t *testing.T) {
	flow := NewBootstrapFlowSynchronization()
	assert.NoError(t, flow.SetExpectedNodeCount(2))

	var errg errgroup.Group
	errg.Go(flow.AwaitClusterFormed)

	assert.NoError(t, flow.NodeAnnounced())
	assert.NoError(t, flow.NodeAnnounced())
	assert.NoError(t, errg.Wait())
}

func TestBootstrapFlowDeadline(t *testing.T) {
	flow := NewBootstrapFlowSynchronization()
	assert.NoError(t, flow.SetExpectedNodeCount(2))
	assert.NoError(t, flow.NodeAnnounced())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Equal(t, ErrBootstrapTimeout, flow.AwaitClusterFormedWithDeadline(ctx))
}

func TestBootstrapFlowExtraAnnouncement(t *testing.T) {
	flow := NewBootstrapFlowSynchronization()
	assert.NoError(t, flow.SetExpectedNodeCount(1))
	assert.NoError(t, flow.NodeAnnounced())
	// An unexpected node arriving after formation trips the barrier integrity.
	assert.Equal(t, ErrGateIntegrity, flow.NodeAnnounced())
}
