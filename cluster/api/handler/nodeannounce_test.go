// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/capgate/capgate/cluster/api/model"
	"github.com/capgate/capgate/cluster/core"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func announceRouter(capabilityService core.CapabilityService) http.Handler {
	router := chi.NewRouter()
	router.Post("/cluster/nodes/{nodeID}/capabilities",
		NewNodeAnnounceHandler(capabilityService).ServeHTTP)
	router.Delete("/cluster/nodes/{nodeID}",
		NewNodeLeaveHandler(capabilityService).ServeHTTP)
	return router
}

func announceRequestReader(t *testing.T, capabilities []string) io.Reader {
	body, err := json.Marshal(AnnounceRequest{Capabilities: capabilities})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestNodeAnnounceInvalidNodeID(t *testing.T) {
	router := announceRouter(newTestService())

	request := httptest.NewRequest("POST", "/cluster/nodes/not-a-uuid/capabilities", announceRequestReader(t, nil))
	responseRecorder := httptest.NewRecorder()

	router.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusBadRequest, responseRecorder.Code)
}

func TestNodeAnnounceUnknownNode(t *testing.T) {
	router := announceRouter(newTestService())

	request := httptest.NewRequest("POST", "/cluster/nodes/"+uuid.New().String()+"/capabilities", announceRequestReader(t, nil))
	responseRecorder := httptest.NewRecorder()

	router.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusNotFound, responseRecorder.Code)
}

func TestNodeAnnounceMalformedBody(t *testing.T) {
	capabilityService := newTestService()
	node, err := capabilityService.RegisterNode("node-1")
	require.NoError(t, err)

	router := announceRouter(capabilityService)
	request := httptest.NewRequest("POST", "/cluster/nodes/"+node.ID.String()+"/capabilities", bytes.NewReader([]byte("{")))
	responseRecorder := httptest.NewRecorder()

	router.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusForbidden, responseRecorder.Code)

	var errorResponse model.ErrorResponse
	respBody, _ := io.ReadAll(responseRecorder.Body)
	json.Unmarshal(respBody, &errorResponse)
	require.Equal(t, errInvalidRequestFormat, errorResponse.ErrorType)
}

func TestNodeAnnounceDrivesAgreement(t *testing.T) {
	capabilityService := newTestService(core.CapabilityWireFormatV2)
	node, err := capabilityService.RegisterNode("node-1")
	require.NoError(t, err)

	router := announceRouter(capabilityService)
	request := httptest.NewRequest("POST", "/cluster/nodes/"+node.ID.String()+"/capabilities",
		announceRequestReader(t, []string{core.CapabilityWireFormatV2}))
	responseRecorder := httptest.NewRecorder()

	router.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusAccepted, responseRecorder.Code)

	var status model.StatusResponse
	respBody, _ := io.ReadAll(responseRecorder.Body)
	require.NoError(t, json.Unmarshal(respBody, &status))
	assert.Equal(t, "OK", status.Status)

	capability, found := capabilityService.Capability(core.CapabilityWireFormatV2)
	require.True(t, found)
	assert.True(t, capability.IsEnabled())
}

func TestNodeAnnounceAfterLeave(t *testing.T) {
	capabilityService := newTestService()
	node, err := capabilityService.RegisterNode("node-1")
	require.NoError(t, err)
	require.NoError(t, capabilityService.RemoveNode(node.ID))

	router := announceRouter(capabilityService)
	request := httptest.NewRequest("POST", "/cluster/nodes/"+node.ID.String()+"/capabilities", announceRequestReader(t, nil))
	responseRecorder := httptest.NewRecorder()

	router.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusForbidden, responseRecorder.Code)

	var errorResponse model.ErrorResponse
	respBody, _ := io.ReadAll(responseRecorder.Body)
	json.Unmarshal(respBody, &errorResponse)
	require.Equal(t, errNodeDeparted, errorResponse.ErrorType)
}

func TestNodeLeave(t *testing.T) {
	capabilityService := newTestService()
	node, err := capabilityService.RegisterNode("node-1")
	require.NoError(t, err)

	router := announceRouter(capabilityService)
	request := httptest.NewRequest("DELETE", "/cluster/nodes/"+node.ID.String(), nil)
	responseRecorder := httptest.NewRecorder()

	router.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusAccepted, responseRecorder.Code)
	assert.Equal(t, 0, capabilityService.CountNodes())

	// A second departure is a contract violation, not a crash.
	responseRecorder = httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, httptest.NewRequest("DELETE", "/cluster/nodes/"+node.ID.String(), nil))
	require.Equal(t, http.StatusForbidden, responseRecorder.Code)
}

func TestNodeLeaveUnknownNode(t *testing.T) {
	router := announceRouter(newTestService())

	request := httptest.NewRequest("DELETE", "/cluster/nodes/"+uuid.New().String(), nil)
	responseRecorder := httptest.NewRecorder()

	router.ServeHTTP(responseRecorder, request)
	require.Equal(t, http.StatusNotFound, responseRecorder.Code)
}
