package discord

import "context"

type User struct {
	ID       string
	Username string
	Bot      bool
}

type Channel struct {
	ID      string
	Name    string
	GuildID string
}

// Platform is the subset of the chat API used for notifications and the board.
type Platform interface {
	FetchUser(ctx context.Context, id string) (*User, error)
	SendDirectMessage(ctx context.Context, userID, content string) error
	FetchChannel(ctx context.Context, id string) (*Channel, error)
	// SendChannelMessage returns the id of the created message.
	SendChannelMessage(ctx context.Context, channelID, content string) (string, error)
	EditChannelMessage(ctx context.Context, channelID, messageID, content string) error
}
