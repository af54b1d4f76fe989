// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package models defines the data structures shared across MoodMeet.

Categories:

 1. Telemetry events, produced during a live meeting and appended to ordered logs:
    - EmotionSnapshot: one facial-expression sample for one participant
    - TranscriptSegment: one finalized speech-recognition result

 2. Persisted documents:
    - Meeting: the durable record keyed by its shareable code
    - Participant: roster entry with join and leave times
    - AISummary: generated post-meeting report

 3. Live values, recomputed from the log tails while a meeting runs:
    - EngagementScore, CoachingTip, LiveMetrics

 4. Analytics views, computed from a completed meeting:
    - HeatmapCell, TimelinePoint, PieSlice, SpeakerStat, AlignedSegment, TrendPoint
    - MeetingAnalytics bundles them for the API

JSON field names are camelCase to stay compatible with the browser producers.
*/
package models
