// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/capgate/capgate/cluster/api/model"

	log "github.com/sirupsen/logrus"
)

const (
	// ErrorTypeInternalServerError error type for internal server error
	ErrorTypeInternalServerError = "InternalServerError"
	// ErrorTypeInvalidNodeID error type for a malformed node identifier
	ErrorTypeInvalidNodeID = "InvalidNodeID"
	// ErrorTypeNodeNotFound error type for an unknown node identifier
	ErrorTypeNodeNotFound = "NodeNotFound"
	// ErrorTypeCapabilityUnknown error type for an untracked capability name
	ErrorTypeCapabilityUnknown = "CapabilityUnknown"
)

// RenderJSON:
// - marshals 'v' to JSON, automatically escaping HTML
// - sets the Content-Type as application/json
// - sets the HTTP response status code
// - returns an error if it occurred before writing to response
func RenderJSON(status int, w http.ResponseWriter, r *http.Request, v interface{}) error {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.WithError(err).Warn("Error while writing response body")
	}

	return nil
}

// RenderForbiddenWithTypeMsg method for rendering error response
func RenderForbiddenWithTypeMsg(w http.ResponseWriter, r *http.Request, errorType string, format string, args ...interface{}) {
	if err := RenderJSON(http.StatusForbidden, w, r, &model.ErrorResponse{
		ErrorType:    errorType,
		ErrorMessage: fmt.Sprintf(format, args...),
	}); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RenderInternalServerError method for rendering error response
func RenderInternalServerError(w http.ResponseWriter, r *http.Request) {
	if err := RenderJSON(http.StatusInternalServerError, w, r, &model.ErrorResponse{
		ErrorMessage: "Internal Server Error",
		ErrorType:    ErrorTypeInternalServerError,
	}); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RenderInvalidNodeID renders a malformed node identifier error response
func RenderInvalidNodeID(w http.ResponseWriter, r *http.Request) {
	if err := RenderJSON(http.StatusBadRequest, w, r, &model.ErrorResponse{
		ErrorMessage: "Invalid node ID",
		ErrorType:    ErrorTypeInvalidNodeID,
	}); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RenderNodeNotFound renders an unknown node identifier error response
func RenderNodeNotFound(w http.ResponseWriter, r *http.Request) {
	if err := RenderJSON(http.StatusNotFound, w, r, &model.ErrorResponse{
		ErrorMessage: "Node is not registered",
		ErrorType:    ErrorTypeNodeNotFound,
	}); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RenderCapabilityUnknown renders an untracked capability name error response
func RenderCapabilityUnknown(w http.ResponseWriter, r *http.Request, name string) {
	if err := RenderJSON(http.StatusNotFound, w, r, &model.ErrorResponse{
		ErrorMessage: fmt.Sprintf("Capability %s is not tracked", name),
		ErrorType:    ErrorTypeCapabilityUnknown,
	}); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
