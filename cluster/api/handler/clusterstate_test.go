// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/capgate/capgate/cluster/core"
	"github.com/capgate/capgate/cluster/core/statejson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterState(t *testing.T) {
	capabilityService := newTestService(core.CapabilityWireFormatV2, core.CapabilityCDC)
	node, err := capabilityService.RegisterNode("node-1")
	require.NoError(t, err)
	require.NoError(t, capabilityService.AnnounceNode(node.ID, []string{core.CapabilityWireFormatV2}))

	handler := NewClusterStateHandler(capabilityService)
	request := httptest.NewRequest("GET", "/cluster/capabilities", nil)
	responseRecorder := httptest.NewRecorder()

	handler.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusOK, responseRecorder.Code)
	require.Equal(t, "application/json", responseRecorder.Header().Get("Content-Type"))

	var description statejson.ClusterStateDescription
	respBody, _ := io.ReadAll(responseRecorder.Body)
	require.NoError(t, json.Unmarshal(respBody, &description))

	require.Len(t, description.Nodes, 1)
	assert.Equal(t, "node-1", description.Nodes[0].Name)
	assert.Equal(t, core.NodeAnnouncedStateName, description.Nodes[0].State)

	require.Len(t, description.Capabilities, 2)
	assert.True(t, description.Capabilities[0].Enabled)
	assert.False(t, description.Capabilities[1].Enabled)
}
