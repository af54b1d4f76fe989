// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package analytics reduces a completed meeting's emotion and transcript logs
into the post-meeting views.

Every function here is pure: no I/O, no clock, no randomness. Calling them
twice with the same logs gives the same output, so the API recomputes views on
every request instead of caching them.

Reductions:

  - Heatmap: 5s buckets labelled with the dominant emotion
  - Timeline: 10s buckets with a count for each of the seven categories
  - Distribution: global share per category, sorted by count
  - Speakers: positive and negative rates per speaker group
  - Align: nearest emotion snapshot for every transcript segment
  - Trend: positive share across several meetings

Input hygiene: items with a zero timestamp, an unknown category or a
confidence outside [0,1] are excluded from every reduction rather than
failing the computation. So are items stamped outside the meeting window,
TimeSlack either side of [start, end], with a live meeting capped at
MaxMeetingSpan. Partition refuses any span of MaxBuckets windows or more.
Exact duplicates produced by sync retries are collapsed before counting.

Bucketing rule: windows are half-open [start, start+w) from the earliest
timestamp, and there are max(1, ceil((max-min)/w)) of them. When the span is
an exact multiple of w, the item at max falls on the boundary of a bucket that
does not exist; it is counted in the last bucket instead, so the last window
is effectively closed.
*/
package analytics
