// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/capgate/capgate/cluster/api/model"
	"github.com/capgate/capgate/cluster/api/rendering"
	"github.com/capgate/capgate/cluster/core"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type nodeAnnounceHandler struct {
	capabilityService core.CapabilityService
}

// AnnounceRequest represents the announce JSON body.
type AnnounceRequest struct {
	Capabilities []string `json:"capabilities"`
}

func parseAnnounce(request *http.Request) (*AnnounceRequest, error) {
	body, err := io.ReadAll(request.Body)
	if err != nil {
		return nil, err
	}

	req := &AnnounceRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		return nil, err
	}

	return req, nil
}

func (h *nodeAnnounceHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	nodeID, err := uuid.Parse(chi.URLParam(request, "nodeID"))
	if err != nil {
		rendering.RenderInvalidNodeID(writer, request)
		return
	}

	announceRequest, err := parseAnnounce(request)
	if err != nil {
		rendering.RenderForbiddenWithTypeMsg(writer, request, errInvalidRequestFormat, err.Error())
		return
	}

	if err := h.capabilityService.AnnounceNode(nodeID, announceRequest.Capabilities); err != nil {
		log.Warnf("Failed to record announcement from node %s: %s", nodeID, err)

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

// NewNodeAnnounceHandler returns a new instance of http handler for serving
// capability announcements.
func NewNodeAnnounceHandler(capabilityService core.CapabilityService) http.Handler {
	return &nodeAnnounceHandler{
		capabilityService: capabilityService,
	}
}
