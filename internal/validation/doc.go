// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package validation validates API request bodies with go-playground/validator.

A single validator instance is built on first use with
WithRequiredStructEnabled and the MoodMeet tags:

  - meetingcode: a code of the form xxx-xxx-xxx (lowercase letters)
  - emotion: one of the seven expression categories, any case
  - notblank: a string with at least one non-space character

Field names in messages come from the json tag, so a failure reads the way
the producer spelled the field:

	type queryRequest struct {
		Code     string `json:"code" validate:"required,meetingcode"`
		Question string `json:"question" validate:"notblank,max=2000"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		// apiErr.Code == "VALIDATION_ERROR"
	}
*/
package validation
