// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// String values of possible node states.
const (
	NodeRegisteredStateName = "Registered"
	NodeAnnouncedStateName  = "Announced"
	NodeLeftStateName       = "Left"
)

// ErrNotAllowed returned on illegal node state transition.
var ErrNotAllowed = errors.New("State transition is not allowed")

// Node represents one cluster member as seen by the local process. Lifecycle:
// Registered -> Announced -> Left, where re-announcing an announced node is
// allowed (nodes refresh their capability set) and a departed node stays
// departed. All fields are guarded by the owning service's mutex.
type Node struct {
	Name string
	ID   uuid.UUID

	state             string
	stateLastModified time.Time
	supported         map[string]struct{}
}

// NewNode returns a new registered node with a fresh unique identifier.
func NewNode(name string) *Node {
	n := &Node{
		Name:      name,
		ID:        uuid.New(),
		supported: make(map[string]struct{}),
	}
	n.setStateUnsafe(NodeRegisteredStateName)
	return n
}

func (n *Node) String() string {
	return fmt.Sprintf("%s (%s)", n.Name, n.ID)
}

// State returns the current lifecycle state name.
func (n *Node) State() string {
	return n.state
}

// StateLastModified returns when the node last changed state.
func (n *Node) StateLastModified() time.Time {
	return n.stateLastModified
}

// Supports reports whether the node announced support for the named capability.
func (n *Node) Supports(name string) bool {
	_, ok := n.supported[name]
	return ok
}

// SupportedCapabilities returns the announced capability names.
func (n *Node) SupportedCapabilities() []string {
	names := make([]string, 0, len(n.supported))
	for name := range n.supported {
		names = append(names, name)
	}
	return names
}

func (n *Node) setStateUnsafe(state string) {
	n.state = state
	n.stateLastModified = time.Now()
}

// announce replaces the node's advertised capability set. Allowed from
// Registered and Announced; a departed node cannot announce.
func (n *Node) announce(capabilities []string) error {
	if n.state == NodeLeftStateName {
		return ErrNotAllowed
	}
	supported := make(map[string]struct{}, len(capabilities))
	for _, name := range capabilities {
		supported[name] = struct{}{}
	}
	n.supported = supported
	n.setStateUnsafe(NodeAnnouncedStateName)
	return nil
}

// leave marks the node as departed. Leaving twice is not allowed.
func (n *Node) leave() error {
	if n.state == NodeLeftStateName {
		return ErrNotAllowed
	}
	n.setStateUnsafe(NodeLeftStateName)
	return nil
}
