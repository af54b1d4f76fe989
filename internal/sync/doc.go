// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package sync flushes growing in-memory logs to a durable destination.

A Syncer tracks one log with a single integer cursor, the index of the first
item not yet acknowledged. Each flush:

 1. reads the unsent suffix and the log length n in one observation
 2. returns without I/O when the suffix is empty
 3. hands the suffix to the Sender
 4. moves the cursor to n only after the Sender returns nil

Items appended while a send is in flight are past n and are picked up by the
next flush. A failed send leaves the cursor alone, so the same items (plus
anything new) are offered again: delivery is at-least-once. Consumers of the
destination tolerate duplicates.

Flushes of one Syncer are serialised by a mutex; a manual flush that races the
periodic loop waits for it instead of sending an overlapping slice.

Import with an alias where the standard library sync package is also needed:

	import intsync "github.com/tomtom215/moodmeet/internal/sync"
*/
package sync
