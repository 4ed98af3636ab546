// Package session owns the persisted bearer token and cached user record.
//
// A Store is created once at startup over a kv.Storage and handed to the
// auth client (the only writer), the route guard and the API client
// (readers). Reads always go to storage, so a login or logout made by
// another process sharing the same backend is picked up on the next read.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/naveenspark/shopfront/internal/kv"
	"github.com/naveenspark/shopfront/pkg/domain"
)

// Persisted key layout.
const (
	TokenKey = "authToken"
	UserKey  = "user"
)

// Session is the client-held proof of identity. User may be nil when the
// token is stored without a readable user record.
type Session struct {
	Token string
	User  *domain.User
}

// Store wraps a kv.Storage. It has no network or validation logic.
type Store struct {
	mu      sync.Mutex
	storage kv.Storage
}

func NewStore(storage kv.Storage) *Store {
	return &Store{storage: storage}
}

// Save persists token and user. The user is written first; if the token
// write then fails, the previous user record is put back so the stored
// session is left as it was.
func (s *Store) Save(ctx context.Context, token string, user domain.User) error {
	if token == "" {
		return errors.New("session.Save: empty token")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session.Save: marshal user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev, err := s.storage.Get(ctx, UserKey)
	if err != nil {
		return fmt.Errorf("session.Save: read previous user: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(data)); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		if rbErr := s.restoreUser(ctx, prev, hadPrev); rbErr != nil {
			log.Errorf("session: rollback user after failed token write: %s", rbErr)
		}
		return fmt.Errorf("session.Save: %w", err)
	}
	return nil
}

func (s *Store) restoreUser(ctx context.Context, prev string, ok bool) error {
	if !ok {
		return s.storage.Delete(ctx, UserKey)
	}
	return s.storage.Set(ctx, UserKey, prev)
}

// Read returns the current session, or nil if none was saved or it was cleared.
func (s *Store) Read(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("session.Read: %w", err)
	}
	if !ok || token == "" {
		return nil, nil
	}

	sess := &Session{Token: token}
	raw, ok, err := s.storage.Get(ctx, UserKey)
	if err != nil {
		return nil, fmt.Errorf("session.Read: %w", err)
	}
	if !ok {
		log.Warnf("session: token present without %q record", UserKey)
		return sess, nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		log.Warnf("session: unreadable %q record: %s", UserKey, err)
		return sess, nil
	}
	sess.User = &u
	return sess, nil
}

// Clear removes both keys. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if err := s.storage.Delete(ctx, TokenKey); err != nil {
		errs = append(errs, err)
	}
	if err := s.storage.Delete(ctx, UserKey); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("session.Clear: %w", errors.Join(errs...))
	}
	return nil
}

// Token returns the stored bearer token or "" when there is none.
// Storage errors are logged and treated as no token.
func (s *Store) Token(ctx context.Context) string {
	sess, err := s.Read(ctx)
	if err != nil {
		log.Warnf("session: read token: %s", err)
		return ""
	}
	if sess == nil {
		return ""
	}
	return sess.Token
}
