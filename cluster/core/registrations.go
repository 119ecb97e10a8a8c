// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"sync"

	"github.com/capgate/capgate/cluster/core/statejson"

	"github.com/google/uuid"

	log "github.com/sirupsen/logrus"
)

type capabilityServiceState int

const (
	capabilityServiceOn capabilityServiceState = iota
	capabilityServiceOff
)

// MaxNodesAllowed caps the number of nodes a single process keeps track of.
const MaxNodesAllowed = 1024

// ErrRegistrationServiceOff returned on attempt to register a node after
// registration has been turned off.
var ErrRegistrationServiceOff = errors.New("ErrRegistrationServiceOff")

// ErrNodeNameCollision returned when a live node with the same name exists.
var ErrNodeNameCollision = errors.New("ErrNodeNameCollision")

// ErrTooManyNodes means MaxNodesAllowed limit is exceeded.
var ErrTooManyNodes = errors.New("ErrTooManyNodes")

// ErrNodeNotFound returned when the node identifier is unknown.
var ErrNodeNotFound = errors.New("ErrNodeNotFound")

// NodeInfo holds information about a node renderable in operator logs.
type NodeInfo struct {
	Name         string
	State        string
	Capabilities []string
}

// CapabilityService keeps track of registered cluster nodes and the capability
// gates the local process negotiates. A pending capability is enabled exactly
// when at least one node is known, every live node has announced its
// capability set, and every announced set contains the capability. Enabling is
// monotonic: later announcements never disable a capability.
type CapabilityService interface {
	RegisterCapability(name string) *Capability
	Capability(name string) (*Capability, bool)
	Capabilities() []*Capability

	RegisterNode(nodeName string) (*Node, error)
	FindNodeByName(nodeName string) (*Node, bool)
	FindNodeByID(id uuid.UUID) (*Node, bool)
	AnnounceNode(id uuid.UUID, supported []string) error
	RemoveNode(id uuid.UUID) error
	CountNodes() int
	NodesInfo() []NodeInfo

	BootstrapFlow() BootstrapFlowSynchronization
	TurnOff()
	GetInternalStateDescriptor() func() statejson.ClusterStateDescription
}

type capabilityServiceImpl struct {
	mutex           *sync.Mutex
	capabilities    map[string]*Capability
	capabilityOrder []string // registration order, for stable reporting
	nodes           map[uuid.UUID]*Node
	state           capabilityServiceState
	bootstrapFlow   BootstrapFlowSynchronization
}

// NewCapabilityService returns a service tracking the given capability names,
// all initially pending.
func NewCapabilityService(bootstrapFlow BootstrapFlowSynchronization, names []string) CapabilityService {
	s := &capabilityServiceImpl{
		mutex:         &sync.Mutex{},
		capabilities:  make(map[string]*Capability),
		nodes:         make(map[uuid.UUID]*Node),
		state:         capabilityServiceOn,
		bootstrapFlow: bootstrapFlow,
	}
	for _, name := range names {
		s.RegisterCapability(name)
	}
	return s
}

// RegisterCapability adds a pending capability gate for the given name,
// returning the existing gate if the name is already tracked.
func (s *capabilityServiceImpl) RegisterCapability(name string) *Capability {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if c, found := s.capabilities[name]; found {
		return c
	}
	c := NewCapability(name, false)
	s.capabilities[name] = c
	s.capabilityOrder = append(s.capabilityOrder, name)
	return c
}

// Capability looks up a tracked capability gate by name.
func (s *capabilityServiceImpl) Capability(name string) (*Capability, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, found := s.capabilities[name]
	return c, found
}

// Capabilities returns all tracked gates in registration order.
func (s *capabilityServiceImpl) Capabilities() []*Capability {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	capabilities := make([]*Capability, 0, len(s.capabilityOrder))
	for _, name := range s.capabilityOrder {
		capabilities = append(capabilities, s.capabilities[name])
	}
	return capabilities
}

// RegisterNode registers a named cluster node and assigns it a unique
// identifier. Registration order has no bearing on agreement.
func (s *capabilityServiceImpl) RegisterNode(nodeName string) (*Node, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != capabilityServiceOn {
		return nil, ErrRegistrationServiceOff
	}
	if _, found := s.findNodeByNameLocked(nodeName); found {
		return nil, ErrNodeNameCollision
	}
	if s.countNodesLocked() >= MaxNodesAllowed {
		return nil, ErrTooManyNodes
	}

	node := NewNode(nodeName)
	s.nodes[node.ID] = node
	log.Infof("Node %s registered", node.String())
	return node, nil
}

// FindNodeByName finds a live (not departed) node by name.
func (s *capabilityServiceImpl) FindNodeByName(nodeName string) (*Node, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.findNodeByNameLocked(nodeName)
}

// FindNodeByID finds a node by its unique identifier.
func (s *capabilityServiceImpl) FindNodeByID(id uuid.UUID) (*Node, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	node, found := s.nodes[id]
	return node, found
}

// AnnounceNode records the node's advertised capability set and re-evaluates
// cluster agreement. Unknown capability names are recorded but have no local
// gate to drive; older and newer nodes may advertise sets the local process
// does not track.
func (s *capabilityServiceImpl) AnnounceNode(id uuid.UUID, supported []string) error {
	s.mutex.Lock()
	node, found := s.nodes[id]
	if !found {
		s.mutex.Unlock()
		return ErrNodeNotFound
	}

	first := node.State() == NodeRegisteredStateName
	if err := node.announce(supported); err != nil {
		s.mutex.Unlock()
		return err
	}
	if first {
		if err := s.bootstrapFlow.NodeAnnounced(); err != nil {
			log.WithError(err).Warnf("Node %s announcement not counted towards cluster formation", node.String())
		}
	}
	log.Infof("Node %s announced support for %v", node.String(), supported)

	agreed := s.evaluateAgreementLocked()
	s.mutex.Unlock()

	// Enable outside the service lock: observer reactions may call back into
	// the service.
	for _, c := range agreed {
		log.Infof("Capability %s enabled by cluster agreement", c.Name())
		c.Enable()
	}
	return nil
}

// RemoveNode marks a node as departed. A departed node no longer vetoes
// agreement, so removal can itself enable capabilities.
func (s *capabilityServiceImpl) RemoveNode(id uuid.UUID) error {
	s.mutex.Lock()
	node, found := s.nodes[id]
	if !found {
		s.mutex.Unlock()
		return ErrNodeNotFound
	}
	if err := node.leave(); err != nil {
		s.mutex.Unlock()
		return err
	}
	log.Infof("Node %s left the cluster", node.String())

	agreed := s.evaluateAgreementLocked()
	s.mutex.Unlock()

	for _, c := range agreed {
		log.Infof("Capability %s enabled by cluster agreement", c.Name())
		c.Enable()
	}
	return nil
}

// CountNodes returns the number of live nodes.
func (s *capabilityServiceImpl) CountNodes() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.countNodesLocked()
}

// NodesInfo returns log-renderable node descriptions.
func (s *capabilityServiceImpl) NodesInfo() []NodeInfo {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	info := make([]NodeInfo, 0, len(s.nodes))
	for _, node := range s.nodes {
		info = append(info, NodeInfo{
			Name:         node.Name,
			State:        node.State(),
			Capabilities: node.SupportedCapabilities(),
		})
	}
	return info
}

// BootstrapFlow returns the cluster-formation synchronization.
func (s *capabilityServiceImpl) BootstrapFlow() BootstrapFlowSynchronization {
	return s.bootstrapFlow
}

// TurnOff closes node registration. Announcements and removals of already
// registered nodes keep working.
func (s *capabilityServiceImpl) TurnOff() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state = capabilityServiceOff
}

// GetInternalStateDescriptor returns a closure describing the current cluster
// state for debugging endpoints.
func (s *capabilityServiceImpl) GetInternalStateDescriptor() func() statejson.ClusterStateDescription {
	return s.describe
}

func (s *capabilityServiceImpl) describe() statejson.ClusterStateDescription {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	description := statejson.ClusterStateDescription{}
	for _, node := range s.nodes {
		description.Nodes = append(description.Nodes, statejson.NodeDescription{
			Name:         node.Name,
			ID:           node.ID.String(),
			State:        node.State(),
			LastModified: node.StateLastModified().UnixNano() / int64(1000*1000),
			Capabilities: node.SupportedCapabilities(),
		})
	}
	for _, name := range s.capabilityOrder {
		description.Capabilities = append(description.Capabilities, statejson.CapabilityDescription{
			Name:    name,
			Enabled: s.capabilities[name].IsEnabled(),
		})
	}
	return description
}

func (s *capabilityServiceImpl) findNodeByNameLocked(nodeName string) (*Node, bool) {
	for _, node := range s.nodes {
		if node.Name == nodeName && node.State() != NodeLeftStateName {
			return node, true
		}
	}
	return nil, false
}

func (s *capabilityServiceImpl) countNodesLocked() int {
	count := 0
	for _, node := range s.nodes {
		if node.State() != NodeLeftStateName {
			count++
		}
	}
	return count
}

// evaluateAgreementLocked returns the pending capabilities every live node
// supports. Agreement requires full knowledge: if any live node has not
// announced yet, nothing is agreed.
func (s *capabilityServiceImpl) evaluateAgreementLocked() []*Capability {
	live := 0
	for _, node := range s.nodes {
		switch node.State() {
		case NodeLeftStateName:
		case NodeAnnouncedStateName:
			live++
		default:
			return nil
		}
	}
	if live == 0 {
		return nil
	}

	var agreed []*Capability
	for _, name := range s.capabilityOrder {
		c := s.capabilities[name]
		if c.IsEnabled() {
			continue
		}
		supportedByAll := true
		for _, node := range s.nodes {
			if node.State() == NodeLeftStateName {
				continue
			}
			if !node.Supports(name) {
				supportedByAll = false
				break
			}
		}
		if supportedByAll {
			agreed = append(agreed, c)
		}
	}
	return agreed
}
