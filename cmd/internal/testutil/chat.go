package testutil

import (
	"context"
	"fmt"
	"sync"

	"meetboard/cmd/internal/domain"
	"meetboard/cmd/internal/integration/discord"
)

type DirectMessage struct {
	UserID  string
	Content string
}

// FakeChat is an in-memory discord.Platform.
type FakeChat struct {
	mu       sync.Mutex
	nextID   int
	users    map[string]*discord.User
	channels map[string]*discord.Channel
	messages map[string]map[string]string

	DMs   []DirectMessage
	DMErr map[string]error
	// EditErr, when set, is returned by EditChannelMessage for existing messages.
	EditErr error
	Sends   int
	Edits   int
}

func NewFakeChat() *FakeChat {
	return &FakeChat{
		users:    make(map[string]*discord.User),
		channels: make(map[string]*discord.Channel),
		messages: make(map[string]map[string]string),
		DMErr:    make(map[string]error),
	}
}

func (f *FakeChat) AddUser(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id] = &discord.User{ID: id, Username: name}
}

func (f *FakeChat) AddChannel(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[id] = &discord.Channel{ID: id, Name: name}
	f.messages[id] = make(map[string]string)
}

// DeleteMessage simulates a moderator removing a message.
func (f *FakeChat) DeleteMessage(channelID, messageID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.messages[channelID], messageID)
}

func (f *FakeChat) Message(channelID, messageID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.messages[channelID][messageID]
	return content, ok
}

func (f *FakeChat) MessageCount(channelID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[channelID])
}

func (f *FakeChat) DMsTo(userID string) []DirectMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []DirectMessage
	for _, dm := range f.DMs {
		if dm.UserID == userID {
			out = append(out, dm)
		}
	}
	return out
}

func (f *FakeChat) FetchUser(_ context.Context, id string) (*discord.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("fetch user %s: %w", id, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *FakeChat) SendDirectMessage(_ context.Context, userID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.DMErr[userID]; err != nil {
		return err
	}
	if _, ok := f.users[userID]; !ok {
		return fmt.Errorf("send dm to %s: %w", userID, domain.ErrNotFound)
	}
	f.DMs = append(f.DMs, DirectMessage{UserID: userID, Content: content})
	return nil
}

func (f *FakeChat) FetchChannel(_ context.Context, id string) (*discord.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[id]
	if !ok {
		return nil, fmt.Errorf("fetch channel %s: %w", id, domain.ErrNotFound)
	}
	cp := *ch
	return &cp, nil
}

func (f *FakeChat) SendChannelMessage(_ context.Context, channelID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs, ok := f.messages[channelID]
	if !ok {
		return "", fmt.Errorf("send message to %s: %w", channelID, domain.ErrNotFound)
	}
	f.nextID++
	id := fmt.Sprintf("msg-%d", f.nextID)
	msgs[id] = content
	f.Sends++
	return id, nil
}

func (f *FakeChat) EditChannelMessage(_ context.Context, channelID, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs, ok := f.messages[channelID]
	if !ok {
		return fmt.Errorf("edit message %s: %w", messageID, domain.ErrNotFound)
	}
	if _, ok := msgs[messageID]; !ok {
		return fmt.Errorf("edit message %s: %w", messageID, domain.ErrNotFound)
	}
	if f.EditErr != nil {
		return f.EditErr
	}
	msgs[messageID] = content
	f.Edits++
	return nil
}
