// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package store

import (
	"encoding/binary"
	"fmt"
)

// Field names one of the two append-only logs of a meeting.
type Field string

const (
	FieldEmotion    Field = "emotion"
	FieldTranscript Field = "transcript"
)

const (
	prefixMeeting = "meeting:"
	prefixLog     = "log:"
	prefixSeq     = "seq:"
)

func meetingKey(code string) []byte {
	return []byte(prefixMeeting + code)
}

func logPrefix(code string, field Field) []byte {
	return []byte(prefixLog + code + ":" + string(field) + ":")
}

func logKey(code string, field Field, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%020d", prefixLog, code, field, seq))
}

func seqKey(code string, field Field) []byte {
	return []byte(prefixSeq + code + ":" + string(field))
}

func encodeSeq(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func decodeSeq(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("corrupt sequence counter: %d bytes", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}
