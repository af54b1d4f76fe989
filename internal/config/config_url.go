// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package config

import (
	"fmt"
	"net/url"
)

// validateHTTPURL accepts http(s) URLs with a host and no query. Paths are
// allowed only when allowPath is set.
func validateHTTPURL(rawURL, envVar string, allowPath bool) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", envVar, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", envVar, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s host is required", envVar)
	}
	if !allowPath && u.Path != "" && u.Path != "/" {
		return fmt.Errorf("%s should be an origin only, remove path: %s", envVar, u.Path)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters", envVar)
	}
	return nil
}

// validateNATSURL accepts nats, tls, ws and wss URLs.
func validateNATSURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("NATS_URL failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "nats", "tls", "ws", "wss":
	default:
		return fmt.Errorf("NATS_URL scheme must be nats, tls, ws, or wss, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("NATS_URL host is required (e.g., localhost:4222)")
	}
	return nil
}
