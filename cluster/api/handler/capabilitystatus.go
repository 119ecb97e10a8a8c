// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/capgate/capgate/cluster/api/model"
	"github.com/capgate/capgate/cluster/api/rendering"
	"github.com/capgate/capgate/cluster/core"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
)

type capabilityStatusHandler struct {
	capabilityService core.CapabilityService
}

func (h *capabilityStatusHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	name := chi.URLParam(request, "name")
	capability, found := h.capabilityService.Capability(name)
	if !found {
		rendering.RenderCapabilityUnknown(writer, request, name)
		return
	}

	resp := &model.CapabilityResponse{
		Name:    capability.Name(),
		Enabled: capability.IsEnabled(),
	}
	if err := rendering.RenderJSON(http.StatusOK, writer, request, resp); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

// NewCapabilityStatusHandler returns a new instance of http handler for
// serving a point-in-time capability state query.
func NewCapabilityStatusHandler(capabilityService core.CapabilityService) http.Handler {
	return &capabilityStatusHandler{
		capabilityService: capabilityService,
	}
}
