// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/tomtom215/moodmeet/internal/metrics"
	"github.com/tomtom215/moodmeet/internal/models"
)

// header is the meeting record without its logs.
type header struct {
	Code         string               `json:"code"`
	Title        string               `json:"title"`
	HostName     string               `json:"hostName"`
	Participants []models.Participant `json:"participants"`
	AISummary    *models.AISummary    `json:"aiSummary,omitempty"`
	Status       models.MeetingStatus `json:"status"`
	StartTime    time.Time            `json:"startTime"`
	EndTime      *time.Time           `json:"endTime,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
}

func headerOf(m *models.Meeting) header {
	return header{
		Code:         m.Code,
		Title:        m.Title,
		HostName:     m.HostName,
		Participants: m.Participants,
		AISummary:    m.AISummary,
		Status:       m.Status,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		CreatedAt:    m.CreatedAt,
	}
}

func (h *header) meeting() *models.Meeting {
	participants := h.Participants
	if participants == nil {
		participants = []models.Participant{}
	}
	return &models.Meeting{
		Code:         h.Code,
		Title:        h.Title,
		HostName:     h.HostName,
		Participants: participants,
		EmotionData:  []models.EmotionSnapshot{},
		Transcripts:  []models.TranscriptSegment{},
		AISummary:    h.AISummary,
		Status:       h.Status,
		StartTime:    h.StartTime,
		EndTime:      h.EndTime,
		CreatedAt:    h.CreatedAt,
	}
}

func readHeader(txn *badger.Txn, code string) (*header, error) {
	item, err := txn.Get(meetingKey(code))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var h header
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &h)
	}); err != nil {
		return nil, fmt.Errorf("decode meeting %s: %w", code, err)
	}
	return &h, nil
}

func writeHeader(txn *badger.Txn, h *header) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal meeting %s: %w", h.Code, err)
	}
	return txn.Set(meetingKey(h.Code), data)
}

// modify applies fn to the stored header and writes it back.
func (s *Store) modify(op, code string, fn func(h *header) error) (m *models.Meeting, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrNotFound) {
			metrics.RecordStoreOp(op, start, nil)
			return
		}
		metrics.RecordStoreOp(op, start, err)
	}()

	err = s.update(func(txn *badger.Txn) error {
		h, err := readHeader(txn, code)
		if err != nil {
			return err
		}
		if err := fn(h); err != nil {
			return err
		}
		if err := writeHeader(txn, h); err != nil {
			return err
		}
		m = h.meeting()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, code, err)
	}
	return m, nil
}

// Create stores a new meeting header. Logs in m are ignored; use the append
// operations for them.
func (s *Store) Create(ctx context.Context, m *models.Meeting) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOp("create", start, err) }()

	h := headerOf(m)
	err = s.update(func(txn *badger.Txn) error {
		if _, err := txn.Get(meetingKey(m.Code)); err == nil {
			return ErrExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return writeHeader(txn, &h)
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", m.Code, err)
	}
	return nil
}

// Get returns the meeting with both logs in append order, read from one
// consistent snapshot.
func (s *Store) Get(ctx context.Context, code string) (*models.Meeting, error) {
	start := time.Now()
	var m *models.Meeting
	err := s.view(func(txn *badger.Txn) error {
		h, err := readHeader(txn, code)
		if err != nil {
			return err
		}
		m = h.meeting()
		if m.EmotionData, err = readLog[models.EmotionSnapshot](txn, code, FieldEmotion); err != nil {
			return err
		}
		m.Transcripts, err = readLog[models.TranscriptSegment](txn, code, FieldTranscript)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		metrics.RecordStoreOp("get", start, nil)
		return nil, ErrNotFound
	}
	metrics.RecordStoreOp("get", start, err)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", code, err)
	}
	return m, nil
}

// Exists reports whether a meeting header is stored for code.
func (s *Store) Exists(ctx context.Context, code string) (bool, error) {
	var found bool
	err := s.view(func(txn *badger.Txn) error {
		_, err := txn.Get(meetingKey(code))
		switch {
		case err == nil:
			found = true
		case errors.Is(err, badger.ErrKeyNotFound):
		default:
			return err
		}
		return nil
	})
	return found, err
}

// Join upserts a participant by ID and marks the meeting active. A rejoin
// keeps the original join time and clears LeftAt.
func (s *Store) Join(ctx context.Context, code string, p models.Participant) (*models.Meeting, error) {
	return s.modify("join", code, func(h *header) error {
		upsertParticipant(h, p)
		if h.Status != models.StatusEnded {
			h.Status = models.StatusActive
		}
		return nil
	})
}

func upsertParticipant(h *header, p models.Participant) {
	for i := range h.Participants {
		if h.Participants[i].ID == p.ID {
			h.Participants[i].Name = p.Name
			h.Participants[i].LeftAt = nil
			return
		}
	}
	h.Participants = append(h.Participants, p)
}

// Leave records the departure time of a participant. Unknown participants
// are ignored.
func (s *Store) Leave(ctx context.Context, code, participantID string, at time.Time) (*models.Meeting, error) {
	return s.modify("leave", code, func(h *header) error {
		for i := range h.Participants {
			if h.Participants[i].ID == participantID && h.Participants[i].LeftAt == nil {
				left := at
				h.Participants[i].LeftAt = &left
			}
		}
		return nil
	})
}

// End writes the end marker. Ending twice keeps the first end time.
func (s *Store) End(ctx context.Context, code string, at time.Time) (*models.Meeting, error) {
	return s.modify("end", code, func(h *header) error {
		if h.Status == models.StatusEnded && h.EndTime != nil {
			return nil
		}
		end := at
		h.Status = models.StatusEnded
		h.EndTime = &end
		return nil
	})
}

// SetSummary stores the generated AI summary.
func (s *Store) SetSummary(ctx context.Context, code string, summary *models.AISummary) (*models.Meeting, error) {
	return s.modify("set_summary", code, func(h *header) error {
		h.AISummary = summary
		return nil
	})
}

// Filter selects meetings for List.
type Filter struct {
	// Status, when set, keeps only meetings in that state.
	Status models.MeetingStatus

	// WithEmotions loads the emotion log of every returned meeting.
	WithEmotions bool
}

// History is the filter behind the meeting history page.
var History = Filter{Status: models.StatusEnded, WithEmotions: true}

// List returns one page of meetings and the total number that match.
// Ended meetings sort by end time, newest first; the rest by start time,
// newest first. Page is 1-based.
func (s *Store) List(ctx context.Context, f Filter, page, limit int) (items []models.Meeting, total int, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOp("list", start, err) }()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	err = s.view(func(txn *badger.Txn) error {
		headers, err := scanHeaders(txn, f)
		if err != nil {
			return err
		}
		total = len(headers)

		from := (page - 1) * limit
		if from >= len(headers) {
			items = []models.Meeting{}
			return nil
		}
		to := min(from+limit, len(headers))

		items = make([]models.Meeting, 0, to-from)
		for i := from; i < to; i++ {
			m := headers[i].meeting()
			if f.WithEmotions {
				if m.EmotionData, err = readLog[models.EmotionSnapshot](txn, m.Code, FieldEmotion); err != nil {
					return err
				}
			}
			items = append(items, *m)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list meetings: %w", err)
	}
	return items, total, nil
}

func scanHeaders(txn *badger.Txn, f Filter) ([]header, error) {
	prefix := []byte(prefixMeeting)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []header
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var h header
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &h)
		}); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		if f.Status != "" && h.Status != f.Status {
			continue
		}
		out = append(out, h)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := sortTime(&out[i]), sortTime(&out[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func sortTime(h *header) time.Time {
	if h.EndTime != nil {
		return *h.EndTime
	}
	return h.StartTime
}
