// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package llm wraps the external text generator used for coaching tips,
// post-meeting summaries and questions about a meeting.
//
// The generator is advisory. Service never lets an upstream failure escape
// as a hard error: every operation returns a fixed placeholder together
// with ErrUnavailable, and callers decide whether to surface it.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable wraps any upstream failure: transport errors, non-2xx
	// responses, an open circuit, a rate limit wait cut short.
	ErrUnavailable = errors.New("llm: generator unavailable")

	// ErrNotConfigured is returned by Placeholder, i.e. when no API key is set.
	ErrNotConfigured = errors.New("llm: no API key configured")
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Placeholder is the generator used without an API key.
type Placeholder struct{}

// Generate always fails with ErrNotConfigured.
func (Placeholder) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
