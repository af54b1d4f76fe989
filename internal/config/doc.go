// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package config loads MoodMeet configuration with koanf v2.

Sources, lowest to highest priority:

 1. Defaults from defaultConfig
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/moodmeet/config.yaml
 3. Environment variables listed in envMappings

Unlisted environment variables are ignored. Comma-separated values are
split for slice fields (CLIENT_URL may name several origins).

Environment variables:

	PORT                  HTTP port (5001)
	HOST                  bind address (0.0.0.0)
	STORE_PATH            badger directory (/data/moodmeet)
	STORE_GC_INTERVAL     value log GC period (10m, 0 disables)
	SYNC_INTERVAL         live log flush period (30s)
	COACHING_INTERVAL     coaching tip period (20s)
	METRICS_INTERVAL      engagement broadcast period (5s)
	FINAL_FLUSH_TIMEOUT   bound on the flush when a meeting ends (5s)
	GEMINI_API_KEY        enables AI coaching, summaries and Q&A
	GEMINI_MODEL          model name (gemini-2.0-flash)
	CLASSIFIER_URL        expression inference service; empty disables frames
	AUTO_SUMMARY          summarize meetings when they end (true)
	NATS_ENABLED          use NATS JetStream for meeting events (false)
	NATS_URL              external server when NATS_EMBEDDED=false
	NATS_EMBEDDED         run an in-process NATS server (true)
	CLIENT_URL            allowed CORS origins (http://localhost:5173)
	RATE_LIMIT_DISABLED   turn off per-IP rate limits
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
