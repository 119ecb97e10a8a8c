// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// CapabilityDescription ...
type CapabilityDescription struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// NodeDescription ...
type NodeDescription struct {
	Name         string   `json:"name"`
	ID           string   `json:"id"`
	State        string   `json:"state"`
	LastModified int64    `json:"lastModified"`
	Capabilities []string `json:"capabilities"`
}

// ClusterStateDescription describes nodes and capability gates for debugging purposes
type ClusterStateDescription struct {
	Nodes        []NodeDescription       `json:"nodes"`
	Capabilities []CapabilityDescription `json:"capabilities"`
}

func (s *ClusterStateDescription) AsJSON() []byte {
	bytes, err := json.Marshal(s)
	if err != nil {
		log.Panicf("Failed to marshall cluster state: %s", err)
	}
	return bytes
}
