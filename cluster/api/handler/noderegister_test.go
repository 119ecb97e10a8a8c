// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/capgate/capgate/cluster/api/model"
	"github.com/capgate/capgate/cluster/core"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(names ...string) core.CapabilityService {
	return core.NewCapabilityService(core.NewBootstrapFlowSynchronization(), names)
}

func TestNodeRegisterEmptyName(t *testing.T) {
	capabilityService := newTestService()

	handler := NewNodeRegisterHandler(capabilityService)
	request := httptest.NewRequest("POST", "/cluster/nodes", nil)
	responseRecorder := httptest.NewRecorder()

	handler.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusForbidden, responseRecorder.Code)

	var errorResponse model.ErrorResponse
	respBody, _ := io.ReadAll(responseRecorder.Body)
	json.Unmarshal(respBody, &errorResponse)
	require.Equal(t, errNodeNameInvalid, errorResponse.ErrorType)
}

func TestNodeRegisterRegistrationClosed(t *testing.T) {
	capabilityService := newTestService()
	capabilityService.TurnOff()

	handler := NewNodeRegisterHandler(capabilityService)
	request := httptest.NewRequest("POST", "/cluster/nodes", nil)
	request.Header.Add(CapgateNodeName, "node-1")
	responseRecorder := httptest.NewRecorder()

	handler.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusForbidden, responseRecorder.Code)

	var errorResponse model.ErrorResponse
	respBody, _ := io.ReadAll(responseRecorder.Body)
	json.Unmarshal(respBody, &errorResponse)
	require.Equal(t, errNodeRegistrationClosed, errorResponse.ErrorType)
}

func TestNodeRegisterNameCollision(t *testing.T) {
	capabilityService := newTestService()
	_, err := capabilityService.RegisterNode("node-1")
	require.NoError(t, err)

	handler := NewNodeRegisterHandler(capabilityService)
	request := httptest.NewRequest("POST", "/cluster/nodes", nil)
	request.Header.Add(CapgateNodeName, "node-1")
	responseRecorder := httptest.NewRecorder()

	handler.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusForbidden, responseRecorder.Code)

	var errorResponse model.ErrorResponse
	respBody, _ := io.ReadAll(responseRecorder.Body)
	json.Unmarshal(respBody, &errorResponse)
	require.Equal(t, errNodeNameCollision, errorResponse.ErrorType)
}

func TestNodeRegisterHappyPath(t *testing.T) {
	capabilityService := newTestService(core.CapabilityWireFormatV2, core.CapabilityCDC)

	handler := NewNodeRegisterHandler(capabilityService)
	request := httptest.NewRequest("POST", "/cluster/nodes", nil)
	request.Header.Add(CapgateNodeName, "node-1")
	responseRecorder := httptest.NewRecorder()

	handler.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusOK, responseRecorder.Code)

	nodeID := responseRecorder.Header().Get(CapgateNodeIdentifier)
	_, err := uuid.Parse(nodeID)
	require.NoError(t, err)

	var resp model.NodeRegisterResponse
	respBody, _ := io.ReadAll(responseRecorder.Body)
	require.NoError(t, json.Unmarshal(respBody, &resp))
	assert.Equal(t, "node-1", resp.NodeName)
	assert.Equal(t, nodeID, resp.NodeID)
	assert.Equal(t, []string{core.CapabilityWireFormatV2, core.CapabilityCDC}, resp.TrackedCapabilities)
}
