// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"net/http"

	"github.com/capgate/capgate/cluster/api/rendering"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// AccessLogMiddleware logs api requests.
func AccessLogMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.WithFields(log.Fields{
				"method": r.Method,
				"url":    r.URL.Path,
			}).Debug("API request")
			next.ServeHTTP(w, r)
		})
	}
}

// NodeIDValidator validates that the {nodeID} URL parameter is a well-formed
// unique identifier before the handler sees it.
func NodeIDValidator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := uuid.Parse(chi.URLParam(r, "nodeID")); err != nil {
			rendering.RenderInvalidNodeID(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
