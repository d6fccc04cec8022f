package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/primer-realty/internal/kvstore"
	"github.com/wolfman30/primer-realty/internal/visitor"
)

const sessionKeyPrefix = "booking_session:"

// Session is a persisted wizard.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionStore keeps sessions in the visitor's namespace of a kvstore, so a
// session id is only usable by the visitor who started it.
type SessionStore struct {
	store kvstore.Store
}

func NewSessionStore(store kvstore.Store) *SessionStore {
	return &SessionStore{store: store}
}

func (s *SessionStore) Get(ctx context.Context, id string) (Session, error) {
	var sess Session
	found, err := kvstore.GetJSON(ctx, visitor.Scope(ctx, s.store), sessionKeyPrefix+id, &sess)
	if err != nil {
		return Session{}, fmt.Errorf("booking: load session: %w", err)
	}
	if !found {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess Session) error {
	if err := kvstore.SetJSON(ctx, visitor.Scope(ctx, s.store), sessionKeyPrefix+sess.ID, sess); err != nil {
		return fmt.Errorf("booking: save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := visitor.Scope(ctx, s.store).Delete(ctx, sessionKeyPrefix+id); err != nil {
		return fmt.Errorf("booking: delete session: %w", err)
	}
	return nil
}

func newSessionID() string {
	return uuid.NewString()
}

const opSubmit = "submit"

// sessionLocks is a non-blocking per-session lock. The holder's operation
// decides which error a contender sees.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]string
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{held: make(map[string]string)}
}

func (l *sessionLocks) acquire(id, op string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if holder, busy := l.held[id]; busy {
		if holder == opSubmit {
			return nil, ErrSubmissionInFlight
		}
		return nil, ErrSessionBusy
	}
	l.held[id] = op
	return func() {
		l.mu.Lock()
		delete(l.held, id)
		l.mu.Unlock()
	}, nil
}
