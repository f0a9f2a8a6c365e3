package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"meetboard/cmd/internal/domain"
	"meetboard/cmd/internal/integration/google/gcal"
)

// FakeCalendar is an in-memory gcal.Provider.
type FakeCalendar struct {
	mu     sync.Mutex
	nextID int
	events map[string]*gcal.Event

	// Err, when set, is returned by every call.
	Err     error
	Inserts int
	Updates int
	Deletes int
}

func NewFakeCalendar() *FakeCalendar {
	return &FakeCalendar{events: make(map[string]*gcal.Event)}
}

// Put stores an event as-is, bypassing the codec (used to seed legacy events).
func (f *FakeCalendar) Put(ev *gcal.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[ev.ID] = copyEvent(ev)
}

// Event returns the stored event, or nil.
func (f *FakeCalendar) Event(id string) *gcal.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok {
		return nil
	}
	return copyEvent(ev)
}

func (f *FakeCalendar) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *FakeCalendar) InsertEvent(_ context.Context, _ string, event *gcal.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.nextID++
	ev := copyEvent(event)
	ev.ID = fmt.Sprintf("evt-%d", f.nextID)
	f.events[ev.ID] = ev
	f.Inserts++
	return ev.ID, nil
}

func (f *FakeCalendar) ListEvents(_ context.Context, _ string, timeMin, timeMax time.Time) ([]*gcal.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	var out []*gcal.Event
	for _, ev := range f.events {
		if ev.Start.DateTime.Before(timeMax) && ev.End.DateTime.After(timeMin) {
			out = append(out, copyEvent(ev))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.DateTime.Equal(out[j].Start.DateTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.DateTime.Before(out[j].Start.DateTime)
	})
	return out, nil
}

func (f *FakeCalendar) GetEvent(_ context.Context, _ string, id string) (*gcal.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	ev, ok := f.events[id]
	if !ok {
		return nil, fmt.Errorf("get event %s: %w", id, domain.ErrNotFound)
	}
	return copyEvent(ev), nil
}

func (f *FakeCalendar) UpdateEvent(_ context.Context, _ string, id string, event *gcal.Event) (*gcal.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if _, ok := f.events[id]; !ok {
		return nil, fmt.Errorf("update event %s: %w", id, domain.ErrNotFound)
	}
	ev := copyEvent(event)
	ev.ID = id
	f.events[id] = ev
	f.Updates++
	return copyEvent(ev), nil
}

func (f *FakeCalendar) DeleteEvent(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if _, ok := f.events[id]; !ok {
		return fmt.Errorf("delete event %s: %w", id, domain.ErrNotFound)
	}
	delete(f.events, id)
	f.Deletes++
	return nil
}

func copyEvent(ev *gcal.Event) *gcal.Event {
	out := *ev
	if ev.Private != nil {
		out.Private = make(map[string]string, len(ev.Private))
		for k, v := range ev.Private {
			out.Private[k] = v
		}
	}
	return &out
}
