// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	responseRecorder := httptest.NewRecorder()
	NewPingHandler().ServeHTTP(responseRecorder, httptest.NewRequest("GET", "/ping", nil))

	assert.Equal(t, http.StatusOK, responseRecorder.Code)
	assert.Equal(t, "pong", responseRecorder.Body.String())
}
