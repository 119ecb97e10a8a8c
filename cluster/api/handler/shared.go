// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

// Headers used by the cluster API.
const (
	// CapgateNodeName is the header carrying the node name on register.
	CapgateNodeName = "Capgate-Node-Name"
	// CapgateNodeIdentifier is the header carrying the assigned node ID.
	CapgateNodeIdentifier = "Capgate-Node-Identifier"
)

// Error types rendered to clients.
const (
	errNodeNameInvalid        = "Node.InvalidName"
	errInvalidRequestFormat   = "InvalidRequestFormat"
	errNodeRegistrationClosed = "Node.RegistrationClosed"
	errTooManyNodes           = "Node.TooManyNodes"
	errNodeNameCollision      = "Node.NameCollision"
	errNodeDeparted           = "Node.AlreadyDeparted"
)
