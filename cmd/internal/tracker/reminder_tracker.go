package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"meetboard/cmd/internal/clock"
	"meetboard/cmd/internal/domain/entity"
)

const DefaultReminderRetention = 3 * 24 * time.Hour

type ReminderStore interface {
	FindSince(cutoff time.Time) ([]*entity.ReminderRecord, error)
	Save(record *entity.ReminderRecord) error
	DeleteBefore(cutoff time.Time) (int64, error)
}

type reminderKey struct {
	meetingID string
	kind      string
}

// ReminderTracker remembers which (meeting, kind) reminders were already sent.
// The in-memory map is authoritative; the optional store only lets a restart
// inside the reminder window skip reminders that were already delivered.
type ReminderTracker struct {
	mu        sync.Mutex
	fired     map[reminderKey]time.Time
	clock     clock.Clock
	retention time.Duration
	store     ReminderStore
}

type ReminderOption func(*ReminderTracker)

func WithReminderStore(store ReminderStore) ReminderOption {
	return func(t *ReminderTracker) {
		t.store = store
	}
}

// WithRetention overrides how long fired records are kept.
func WithRetention(d time.Duration) ReminderOption {
	return func(t *ReminderTracker) {
		if d > 0 {
			t.retention = d
		}
	}
}

func NewReminderTracker(clk clock.Clock, opts ...ReminderOption) *ReminderTracker {
	t := &ReminderTracker{
		fired:     make(map[reminderKey]time.Time),
		clock:     clk,
		retention: DefaultReminderRetention,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Restore loads the records still inside the retention window from the store.
func (t *ReminderTracker) Restore() error {
	if t.store == nil {
		return nil
	}

	records, err := t.store.FindSince(t.clock.Now().Add(-t.retention))
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range records {
		key := reminderKey{meetingID: r.MeetingID, kind: r.Kind}
		if _, ok := t.fired[key]; !ok {
			t.fired[key] = r.FiredAt
		}
	}
	return nil
}

func (t *ReminderTracker) HasFired(meetingID, kind string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.fired[reminderKey{meetingID: meetingID, kind: kind}]
	return ok
}

// MarkFired is one-way: marking an already fired key keeps the first timestamp.
func (t *ReminderTracker) MarkFired(meetingID, kind string) {
	key := reminderKey{meetingID: meetingID, kind: kind}
	now := t.clock.Now()

	t.mu.Lock()
	if _, ok := t.fired[key]; ok {
		t.mu.Unlock()
		return
	}
	t.fired[key] = now
	t.mu.Unlock()

	if t.store != nil {
		record := &entity.ReminderRecord{MeetingID: meetingID, Kind: kind, FiredAt: now}
		if err := t.store.Save(record); err != nil {
			log.Warnf("[reminders] failed to persist %s/%s: %v", meetingID, kind, err)
		}
	}
}

// Sweep drops records older than the retention window, whether or not the
// meeting still exists, and returns how many were removed from memory.
func (t *ReminderTracker) Sweep() int {
	cutoff := t.clock.Now().Add(-t.retention)

	t.mu.Lock()
	removed := 0
	for key, firedAt := range t.fired {
		if firedAt.Before(cutoff) {
			delete(t.fired, key)
			removed++
		}
	}
	remaining := len(t.fired)
	t.mu.Unlock()

	if t.store != nil {
		if _, err := t.store.DeleteBefore(cutoff); err != nil {
			log.Warnf("[reminders] failed to purge stored records: %v", err)
		}
	}

	log.Infof("[reminders] sweep removed %d records, %d remaining", removed, remaining)
	return removed
}

type ReminderStats struct {
	Total   int                     `json:"total"`
	Records []entity.ReminderRecord `json:"records"`
}

func (t *ReminderTracker) Stats() ReminderStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := ReminderStats{Total: len(t.fired), Records: make([]entity.ReminderRecord, 0, len(t.fired))}
	for key, firedAt := range t.fired {
		stats.Records = append(stats.Records, entity.ReminderRecord{MeetingID: key.meetingID, Kind: key.kind, FiredAt: firedAt})
	}
	sort.Slice(stats.Records, func(i, j int) bool {
		return stats.Records[i].FiredAt.Before(stats.Records[j].FiredAt)
	})
	return stats
}
