//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"partyverse/domain"
	"partyverse/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	userPrefix   = "user:"
	userIDPrefix = "userid:"
)

type IUserRepository interface {
	CreateUser(name, email, hashedPassword string, userType domain.UserType) (string, error)
	UpdateUser(user domain.User) error
	GetUserByEmail(email string) (domain.User, error)
	GetUserByID(id string) (domain.User, error)
	All() ([]domain.User, error)
}

// UserRepository stores users keyed by email under "user:{email}" with a
// secondary "userid:{id}" pointer for id lookups.
type UserRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUserRepository(db *badger.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

// CreateUser persists the user with an already-hashed password and returns
// the newly generated user id. Fails when the email is taken.
func (u UserRepository) CreateUser(name, email, hashedPassword string, userType domain.UserType) (string, error) {
	user := domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Type:         userType,
		CreatedAt:    domain.Stamp(time.Now()),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("marshal user: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := []byte(userPrefix + email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(userIDPrefix+user.ID), []byte(email))
	})
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// UpdateUser overwrites the stored record; the email key must already exist.
func (u UserRepository) UpdateUser(user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return u.db.Update(func(txn *badger.Txn) error {
		key := []byte(userPrefix + user.Email)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

func (u UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userPrefix + email))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &user)
		})
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u UserRepository) GetUserByID(id string) (domain.User, error) {
	var email string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userIDPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			email = string(value)
			return nil
		})
	})
	if err != nil {
		return domain.User{}, err
	}
	return u.GetUserByEmail(email)
}

func (u UserRepository) All() ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte(userPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(value []byte) error {
				var user domain.User
				if err := json.Unmarshal(value, &user); err != nil {
					u.log.Warn("Corrupt user record, skipping", "key", string(item.Key()), "error", err)
					return nil
				}
				users = append(users, user)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return users, err
}
