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

type capabilityAwaitHandler struct {
	capabilityService core.CapabilityService
}

// ServeHTTP long-polls until the capability is enabled or the client goes
// away. Every caller shares the capability's one awaitable; no per-request
// observer bookkeeping is needed.
func (h *capabilityAwaitHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	name := chi.URLParam(request, "name")
	capability, found := h.capabilityService.Capability(name)
	if !found {
		rendering.RenderCapabilityUnknown(writer, request, name)
		return
	}

	select {
	case <-capability.WhenEnabled():
	case <-request.Context().Done():
		log.WithField("capability", name).Debug("Client gave up awaiting capability")
		return
	}

	resp := &model.CapabilityResponse{
		Name:    capability.Name(),
		Enabled: true,
	}
	if err := rendering.RenderJSON(http.StatusOK, writer, request, resp); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

// NewCapabilityAwaitHandler returns a new instance of http handler for
// blocking until a capability is enabled.
func NewCapabilityAwaitHandler(capabilityService core.CapabilityService) http.Handler {
	return &capabilityAwaitHandler{
		capabilityService: capabilityService,
	}
}
