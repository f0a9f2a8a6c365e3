package discord

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"meetboard/cmd/internal/domain"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  *discordgo.RESTError
		want error
	}{
		{
			name: "unknown message",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}, Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage}},
			want: domain.ErrNotFound,
		},
		{
			name: "bare 404",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}},
			want: domain.ErrNotFound,
		},
		{
			name: "bad token",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusUnauthorized}},
			want: domain.ErrAuth,
		},
		{
			name: "dms closed",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}},
			want: domain.ErrForbidden,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translate("op", tc.err); !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	other := errors.New("gateway closed")
	if got := translate("op", other); !errors.Is(got, other) {
		t.Fatalf("expected unknown errors to be wrapped, got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	short := "hello"
	if truncate(short) != short {
		t.Fatalf("expected short content untouched")
	}

	long := strings.Repeat("會", maxMessageLength+10)
	got := truncate(long)
	if n := utf8.RuneCountInString(got); n != maxMessageLength {
		t.Fatalf("expected %d runes, got %d", maxMessageLength, n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix")
	}
}
