package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"meetboard/cmd/internal/domain"
)

// maxMessageLength is the platform limit for a message body.
const maxMessageLength = 2000

type Client struct {
	session *discordgo.Session
}

func NewClient(token string) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages
	return &Client{session: session}, nil
}

// Open connects the gateway. REST calls work without it, but the bot shows offline.
func (c *Client) Open() error {
	return c.session.Open()
}

func (c *Client) Close() error {
	return c.session.Close()
}

func (c *Client) FetchUser(ctx context.Context, id string) (*User, error) {
	u, err := c.session.User(id, discordgo.WithContext(ctx))
	if err != nil {
		return nil, translate("fetch user "+id, err)
	}
	return &User{ID: u.ID, Username: u.Username, Bot: u.Bot}, nil
}

func (c *Client) SendDirectMessage(ctx context.Context, userID, content string) error {
	ch, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return translate("open dm with "+userID, err)
	}
	if _, err := c.session.ChannelMessageSend(ch.ID, truncate(content), discordgo.WithContext(ctx)); err != nil {
		return translate("send dm to "+userID, err)
	}
	return nil
}

func (c *Client) FetchChannel(ctx context.Context, id string) (*Channel, error) {
	ch, err := c.session.Channel(id, discordgo.WithContext(ctx))
	if err != nil {
		return nil, translate("fetch channel "+id, err)
	}
	return &Channel{ID: ch.ID, Name: ch.Name, GuildID: ch.GuildID}, nil
}

func (c *Client) SendChannelMessage(ctx context.Context, channelID, content string) (string, error) {
	msg, err := c.session.ChannelMessageSend(channelID, truncate(content), discordgo.WithContext(ctx))
	if err != nil {
		return "", translate("send message to "+channelID, err)
	}
	return msg.ID, nil
}

func (c *Client) EditChannelMessage(ctx context.Context, channelID, messageID, content string) error {
	if _, err := c.session.ChannelMessageEdit(channelID, messageID, truncate(content), discordgo.WithContext(ctx)); err != nil {
		return translate("edit message "+messageID, err)
	}
	return nil
}

func truncate(content string) string {
	if utf8.RuneCountInString(content) <= maxMessageLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:maxMessageLength-1]) + "…"
}

func translate(op string, err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownUser:
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
	}

	if restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", op, domain.ErrAuth)
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w", op, domain.ErrForbidden)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
