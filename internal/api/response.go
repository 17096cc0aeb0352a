// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

// Package api provides the HTTP surface: chi routing, handlers, and a
// standardized response envelope.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/steamscope/steamscope/internal/logging"
)

// APIResponse is the envelope for all API endpoints.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError carries a machine-readable code plus a human-readable message.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta carries response metadata.
type APIMeta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Error codes for API responses.
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeExternalServiceFail = "EXTERNAL_SERVICE_FAILED"
)

// respondJSON writes data inside the success envelope.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeEnvelope(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			RequestID: requestIDFromContext(r.Context()),
			Timestamp: time.Now(),
		},
	})
}

// respondError writes an error envelope. The underlying error goes to
// the log, not the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	requestID := requestIDFromContext(r.Context())
	if err != nil {
		logging.Warn().
			Err(err).
			Str("request_id", requestID).
			Str("code", code).
			Int("status", status).
			Msg(message)
	}

	writeEnvelope(w, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
		Meta: &APIMeta{
			RequestID: requestID,
			Timestamp: time.Now(),
		},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}
