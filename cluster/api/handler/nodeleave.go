// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/capgate/capgate/cluster/api/model"
	"github.com/capgate/capgate/cluster/api/rendering"
	"github.com/capgate/capgate/cluster/core"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type nodeLeaveHandler struct {
	capabilityService core.CapabilityService
}

func (h *nodeLeaveHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	nodeID, err := uuid.Parse(chi.URLParam(request, "nodeID"))
	if err != nil {
		rendering.RenderInvalidNodeID(writer, request)
		return
	}

	if err := h.capabilityService.RemoveNode(nodeID); err != nil {
		log.Warnf("Failed to remove node %s: %s", nodeID, err)

		switch err {
		case core.ErrNodeNotFound:
			rendering.RenderNodeNotFound(writer, request)
		case core.ErrNotAllowed:
			rendering.RenderForbiddenWithTypeMsg(writer, request,
				errNodeDeparted, "Node already left the cluster")
		default:
			rendering.RenderInternalServerError(writer, request)
		}

		return
	}

	render.Status(request, http.StatusAccepted)
	render.JSON(writer, request, &model.StatusResponse{Status: "OK"})
}

// NewNodeLeaveHandler returns a new instance of http handler for serving
// node departures.
func NewNodeLeaveHandler(capabilityService core.CapabilityService) http.Handler {
	return &nodeLeaveHandler{
		capabilityService: capabilityService,
	}
}
