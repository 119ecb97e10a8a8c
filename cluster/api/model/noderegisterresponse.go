// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

// NodeRegisterResponse is the response to a node's register request. It
// echoes the assigned identity and lists the capability names the local
// process tracks, so the node knows what to include in its announcements.
type NodeRegisterResponse struct {
	NodeName            string   `json:"nodeName"`
	NodeID              string   `json:"nodeId"`
	TrackedCapabilities []string `json:"trackedCapabilities"`
}
