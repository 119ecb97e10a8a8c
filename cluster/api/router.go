// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/capgate/capgate/cluster/api/handler"
	"github.com/capgate/capgate/cluster/api/middleware"
	"github.com/capgate/capgate/cluster/core"

	"github.com/go-chi/chi"
)

// NewRouter returns a new instance of chi router implementing
// the cluster capability API.
func NewRouter(capabilityService core.CapabilityService) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.AccessLogMiddleware())

	router.Get("/ping", handler.NewPingHandler().ServeHTTP)

	router.Post("/cluster/nodes",
		handler.NewNodeRegisterHandler(capabilityService).ServeHTTP)

	router.Post("/cluster/nodes/{nodeID}/capabilities",
		middleware.NodeIDValidator(
			handler.NewNodeAnnounceHandler(capabilityService)).ServeHTTP)

	router.Delete("/cluster/nodes/{nodeID}",
		middleware.NodeIDValidator(
			handler.NewNodeLeaveHandler(capabilityService)).ServeHTTP)

	router.Get("/cluster/capabilities",
		handler.NewClusterStateHandler(capabilityService).ServeHTTP)

	router.Get("/cluster/capabilities/{name}",
		handler.NewCapabilityStatusHandler(capabilityService).ServeHTTP)

	router.Get("/cluster/capabilities/{name}/await",
		handler.NewCapabilityAwaitHandler(capabilityService).ServeHTTP)

	return router
}
