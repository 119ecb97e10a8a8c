// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/capgate/capgate/cluster/core"
	"github.com/capgate/capgate/cluster/core/statejson"

	log "github.com/sirupsen/logrus"
)

type clusterStateHandler struct {
	internalState func() statejson.ClusterStateDescription
}

func (h *clusterStateHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	description := h.internalState()

	writer.Header().Set("Content-Type", "application/json")
	if _, err := writer.Write(description.AsJSON()); err != nil {
		log.WithError(err).Warn("Error while writing response body")
	}
}

// NewClusterStateHandler returns a new instance of http handler for serving
// the cluster state description used by operators and tests.
func NewClusterStateHandler(capabilityService core.CapabilityService) http.Handler {
	return &clusterStateHandler{
		internalState: capabilityService.GetInternalStateDescriptor(),
	}
}
