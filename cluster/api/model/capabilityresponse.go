// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

// CapabilityResponse describes one capability gate.
type CapabilityResponse struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
