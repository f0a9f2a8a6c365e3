package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	type inner struct {
		Name string
	}
	type req struct {
		Title  string
		Note   *string
		Tags   []string
		People []inner
		Count  int
	}

	note := "  hi "
	r := req{Title: " a ", Note: &note, Tags: []string{" x"}, People: []inner{{Name: "bob  "}}}
	Sanitize(&r)

	if r.Title != "a" || *r.Note != "hi" || r.Tags[0] != "x" || r.People[0].Name != "bob" {
		t.Fatalf("unexpected sanitized value %+v", r)
	}
}

func TestTokens(t *testing.T) {
	t.Parallel()
	secret := []byte("s3cret")

	token, err := IssueToken("u1", true, time.Hour, secret)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		data, err := ParseToken(token, secret)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if data.Sub != "u1" || !data.IsAdmin {
			t.Fatalf("unexpected token data %+v", data)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		if _, err := ParseToken(token, []byte("other")); err == nil {
			t.Fatalf("expected signature error")
		}
	})

	t.Run("expired", func(t *testing.T) {
		old, _ := IssueToken("u1", false, -time.Minute, secret)
		if _, err := ParseToken(old, secret); err == nil {
			t.Fatalf("expected expiry error")
		}
	})

	t.Run("middleware", func(t *testing.T) {
		e := echo.New()
		handler := TokenMiddleware(secret)(func(c echo.Context) error {
			data, err := ParseTokenDataCtx(c)
			if err != nil {
				return c.NoContent(http.StatusUnauthorized)
			}
			return c.String(http.StatusOK, data.Sub)
		})

		for _, tc := range []struct {
			header string
			want   int
		}{
			{"Bearer " + token, http.StatusOK},
			{"", http.StatusUnauthorized},
			{"Bearer garbage", http.StatusUnauthorized},
		} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			if err := handler(e.NewContext(req, rec)); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("header %q: expected %d, got %d", tc.header, tc.want, rec.Code)
			}
		}
	})
}
