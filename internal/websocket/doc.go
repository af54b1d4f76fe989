// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package websocket carries live meeting traffic in both directions.

Each connection joins the room of one meeting code. Producers (the meeting
page in a browser, cmd/replay) send telemetry up; the server pushes room
messages down.

Architecture:

	producer ──► Client.readPump ──► Dispatcher ──► Ingestor (session actor)
	                                      │
	                                      └─ frame ──► classifier.Classifier

	session runner / event router ──► Hub.BroadcastToRoom ──► Client.writePump

Incoming messages ({"type": ..., "data": {...}}):

  - ping: answered with pong
  - emotion: participantId, participantName, timestamp, emotion, confidence
  - expressions: participantId, participantName, timestamp, scores{}; the
    arg-max becomes the snapshot
  - frame: participantId, participantName, timestamp, image (base64, data
    URLs accepted); classified server-side
  - speech: participantId, participantName, text, isFinal, timestamp; only
    final results are kept
  - participant.joined / participant.left: participantId, participantName
  - remote.emotion: participantId, emotion

A rejected message is answered with an error message to the sender only.

Outgoing messages:

  - engagement.update: LiveMetrics, every metrics interval
  - meeting.event: lifecycle events relayed from the event bus
  - error: {type, message}

Slow clients are disconnected instead of blocking the room. Message size is
limited to 2 MB to fit a camera frame.
*/
package websocket
