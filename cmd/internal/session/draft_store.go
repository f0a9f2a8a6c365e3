package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"meetboard/cmd/internal/clock"
	"meetboard/cmd/internal/domain"
	"meetboard/cmd/internal/domain/entity"
)

const DefaultDraftTTL = 30 * time.Minute

// Draft is a meeting waiting for its creator to confirm it despite conflicts.
type Draft struct {
	Token     string
	UserID    string
	Meeting   entity.Meeting
	ExpiresAt time.Time
}

type draftKey struct {
	userID string
	token  string
}

// DraftStore holds drafts keyed by (user, token). A draft can only be taken by
// the user who stashed it, and only once.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[draftKey]Draft
	clock  clock.Clock
	ttl    time.Duration
}

func NewDraftStore(clk clock.Clock, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftStore{drafts: make(map[draftKey]Draft), clock: clk, ttl: ttl}
}

func (s *DraftStore) Put(userID string, meeting entity.Meeting) Draft {
	draft := Draft{
		Token:     uuid.NewString(),
		UserID:    userID,
		Meeting:   meeting,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.drafts[draftKey{userID: userID, token: draft.Token}] = draft
	return draft
}

// Take removes and returns the draft. Expired or unknown drafts yield ErrDraftGone.
func (s *DraftStore) Take(userID, token string) (Draft, error) {
	key := draftKey{userID: userID, token: token}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[key]
	if !ok {
		return Draft{}, fmt.Errorf("draft %s: %w", token, domain.ErrDraftGone)
	}
	delete(s.drafts, key)

	if !s.clock.Now().Before(draft.ExpiresAt) {
		return Draft{}, fmt.Errorf("draft %s: %w", token, domain.ErrDraftGone)
	}
	return draft, nil
}

// Purge drops expired drafts and returns how many were dropped.
func (s *DraftStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeLocked()
}

func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

func (s *DraftStore) purgeLocked() int {
	now := s.clock.Now()
	removed := 0
	for key, d := range s.drafts {
		if !now.Before(d.ExpiresAt) {
			delete(s.drafts, key)
			removed++
		}
	}
	return removed
}
