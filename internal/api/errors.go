// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/moodmeet/internal/session"
	"github.com/tomtom215/moodmeet/internal/store"
	"github.com/tomtom215/moodmeet/internal/validation"
)

// Error codes.
const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeValidation     = validation.CodeValidationError
	CodeNotFound       = "NOT_FOUND"
	CodeNoSession      = "NO_LIVE_SESSION"
	CodeTooLarge       = "PAYLOAD_TOO_LARGE"
	CodeRateLimited    = "RATE_LIMITED"
	CodeAIUnavailable  = "AI_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
	CodeServiceStopped = "SERVICE_UNAVAILABLE"
)

const msgMeetingNotFound = "Meeting not found"

// respondStoreError maps a store or session error to a response.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, msgMeetingNotFound, nil)
	case errors.Is(err, session.ErrNoSession):
		respondError(w, r, http.StatusNotFound, CodeNoSession, "Meeting has no live session", nil)
	case errors.Is(err, store.ErrClosed), errors.Is(err, session.ErrSessionClosed):
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceStopped, "Service is shutting down", err)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceStopped, "Request canceled", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Internal server error", err)
	}
}
