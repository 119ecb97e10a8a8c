// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/capgate/capgate/cluster/api/model"
	"github.com/capgate/capgate/cluster/api/rendering"
	"github.com/capgate/capgate/cluster/core"

	log "github.com/sirupsen/logrus"
)

type nodeRegisterHandler struct {
	capabilityService core.CapabilityService
}

func (h *nodeRegisterHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	nodeName := request.Header.Get(CapgateNodeName)
	if nodeName == "" {
		rendering.RenderForbiddenWithTypeMsg(writer, request, errNodeNameInvalid, "Empty node name")
		return
	}

	node, err := h.capabilityService.RegisterNode(nodeName)
	if err != nil {
		log.Warnf("Failed to register node %s: %s", nodeName, err)

		switch err {
		case core.ErrRegistrationServiceOff:
			rendering.RenderForbiddenWithTypeMsg(writer, request,
				errNodeRegistrationClosed, "Node registration closed already")
		case core.ErrNodeNameCollision:
			rendering.RenderForbiddenWithTypeMsg(writer, request,
				errNodeNameCollision, "Node with this name already registered")
		case core.ErrTooManyNodes:
			rendering.RenderForbiddenWithTypeMsg(writer, request,
				errTooManyNodes, "Node limit (%d) reached", core.MaxNodesAllowed)
		default:
			rendering.RenderInternalServerError(writer, request)
		}

		return
	}

	writer.Header().Set(CapgateNodeIdentifier, node.ID.String())

	tracked := make([]string, 0)
	for _, c := range h.capabilityService.Capabilities() {
		tracked = append(tracked, c.Name())
	}

	resp := &model.NodeRegisterResponse{
		NodeName:            node.Name,
		NodeID:              node.ID.String(),
		TrackedCapabilities: tracked,
	}

	if err := rendering.RenderJSON(http.StatusOK, writer, request, resp); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

// NewNodeRegisterHandler returns a new instance of http handler for serving
// node registration requests.
func NewNodeRegisterHandler(capabilityService core.CapabilityService) http.Handler {
	return &nodeRegisterHandler{
		capabilityService: capabilityService,
	}
}
