//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../mocks/mock_session_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"partyverse/domain"

	"github.com/dgraph-io/badger/v4"
)

const keySession = "session"

// Session is the local login flag: a snapshot of the logged-in user plus the
// signed token proving when the session was opened. There is exactly one
// session per store, matching the single-browser-profile model of the
// web client.
type Session struct {
	User  domain.User `json:"currentUser"`
	Token string      `json:"token"`
}

type ISessionRepository interface {
	Save(session Session) error
	Current() (Session, bool, error)
	Clear() error
}

type SessionRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSessionRepository(db *badger.DB, log *slog.Logger) *SessionRepository {
	return &SessionRepository{db: db, log: log}
}

func (s SessionRepository) Save(session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keySession), data)
	})
}

// Current returns the stored session, if any. A corrupt record counts as
// logged out.
func (s SessionRepository) Current() (Session, bool, error) {
	var session Session
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keySession))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			if err := json.Unmarshal(value, &session); err != nil {
				s.log.Warn("Corrupt session record, treating as logged out", "error", err)
				return nil
			}
			found = true
			return nil
		})
	})
	return session, found, err
}

func (s SessionRepository) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keySession))
	})
}
