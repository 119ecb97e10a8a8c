// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package core provides the capability gates and synchronization primitives used
to coordinate cluster-wide feature agreement.

# Capabilities

A Capability tracks whether all the nodes the current process is aware of
support a named feature. It is a one-shot gate: it starts pending and is
enabled exactly once, never disabled. Subsystems hold back feature-dependent
behavior (for example a new wire format) until the gate is enabled.

There are two observation styles, both at-most-once, both usable before or
after the transition:

	<-capability.WhenEnabled() // blocking, channel shared by all awaiters

	registration := capability.RegisterFunc(func() { ... })
	defer registration.Cancel() // withdraws the callback if it has not fired

Observers connected when Enable runs fire synchronously, in registration
order, each disconnected before its reaction runs. An observer registered
against an already enabled capability fires inside its own Register call.

# Gates

Gate is a counting barrier: goroutines wait until the expected number of
arrivals walked through. Cluster formation uses one to hold the daemon back
until every expected node has announced itself:

[main] g.AwaitGateCondition()
[main] // blocked until the expected announcements arrived

[announce] g.WalkThrough()
[announce] // not blocked

# Registrations

CapabilityService manages node registrations: it maintains the mapping between
known cluster nodes and the capability sets they have announced, and enables a
pending capability once every live node announced support for it.
*/
package core
