package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/labstack/gommon/log"

	"meetboard/cmd/internal/clock"
	"meetboard/cmd/internal/domain"
	"meetboard/cmd/internal/domain/entity"
)

type BoardSlotStore interface {
	FindAll() ([]*entity.BoardSlot, error)
	Save(ref *entity.BoardSlot) error
	DeleteAll() error
}

// MessagePoster is the part of the chat platform the board needs.
type MessagePoster interface {
	SendChannelMessage(ctx context.Context, channelID, content string) (string, error)
	EditChannelMessage(ctx context.Context, channelID, messageID, content string) error
}

type PublishOutcome string

const (
	PublishEdited    PublishOutcome = "edited"
	PublishCreated   PublishOutcome = "created"
	PublishRecreated PublishOutcome = "recreated"
)

// BoardTracker maps board slots to the chat message currently rendering them.
type BoardTracker struct {
	mu    sync.Mutex
	refs  map[string]entity.BoardSlot
	store BoardSlotStore
	clock clock.Clock
}

// NewBoardTracker loads the persisted references.
func NewBoardTracker(store BoardSlotStore, clk clock.Clock) (*BoardTracker, error) {
	refs, err := store.FindAll()
	if err != nil {
		return nil, fmt.Errorf("load board refs: %w", err)
	}

	t := &BoardTracker{refs: make(map[string]entity.BoardSlot, len(refs)), store: store, clock: clk}
	for _, ref := range refs {
		t.refs[ref.Slot] = *ref
	}
	return t, nil
}

// GetRef returns nil when the slot has never been published.
func (t *BoardTracker) GetRef(slot string) *entity.BoardSlot {
	t.mu.Lock()
	defer t.mu.Unlock()
	ref, ok := t.refs[slot]
	if !ok {
		return nil
	}
	return &ref
}

func (t *BoardTracker) SetRef(slot, messageID string) error {
	ref := entity.BoardSlot{Slot: slot, MessageID: messageID, UpdatedAt: t.clock.Now()}

	t.mu.Lock()
	t.refs[slot] = ref
	t.mu.Unlock()

	if err := t.store.Save(&ref); err != nil {
		return fmt.Errorf("persist board ref %s: %w", slot, err)
	}
	return nil
}

// Reset forgets every slot so the next refresh posts a fresh board.
func (t *BoardTracker) Reset() error {
	t.mu.Lock()
	t.refs = make(map[string]entity.BoardSlot)
	t.mu.Unlock()

	if err := t.store.DeleteAll(); err != nil {
		return fmt.Errorf("reset board refs: %w", err)
	}
	return nil
}

// Publish edits the slot's message in place, or posts a new one when the slot
// has no message yet or its message no longer exists.
func (t *BoardTracker) Publish(ctx context.Context, poster MessagePoster, slot, channelID, content string) (PublishOutcome, error) {
	outcome := PublishCreated

	if ref := t.GetRef(slot); ref != nil {
		err := poster.EditChannelMessage(ctx, channelID, ref.MessageID, content)
		if err == nil {
			return PublishEdited, t.SetRef(slot, ref.MessageID)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("edit board %s: %w", slot, err)
		}
		log.Warnf("[board] message %s for slot %s is gone, posting a new one", ref.MessageID, slot)
		outcome = PublishRecreated
	}

	messageID, err := poster.SendChannelMessage(ctx, channelID, content)
	if err != nil {
		return "", fmt.Errorf("post board %s: %w", slot, err)
	}
	return outcome, t.SetRef(slot, messageID)
}
