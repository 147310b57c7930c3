package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/store"
)

// Account keys live outside the per-user document tree: an ID-keyed record
// plus an email index entry pointing at the ID.
func accountKey(id string) []byte { return []byte("accounts/byid/" + id) }
func emailIndexKey(email string) []byte { return []byte("accounts/byemail/" + strings.ToLower(email)) }

// UserStore implements store.UserStore on Badger.
type UserStore struct {
	db *DB
}

// NewUserStore creates a UserStore.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create saves a new user and its email index entry in one transaction.
// The stored record never contains the plaintext password.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if user.HashedPassword == "" {
		return fmt.Errorf("%w: user must be hashed before storage", store.ErrInvalidEntity)
	}

	stored := storedUser{
		ID:             user.ID,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		CreatedAt:      user.CreatedAt.UnixMilli(),
	}

	err := s.db.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailIndexKey(user.Email)); err == nil {
			return store.ErrEmailExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := marshalUser(stored)
		if err != nil {
			return err
		}
		if err := txn.Set(accountKey(user.ID.String()), data); err != nil {
			return err
		}
		return txn.Set(emailIndexKey(user.Email), []byte(user.ID.String()))
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return store.ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var stored storedUser
	err := s.db.get(accountKey(id.String()), &stored)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return stored.toDomain(), nil
}

// GetByEmail retrieves a user via the email index.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var idStr string
	err := s.db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailIndexKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			idStr = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up user by email: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt email index for %s: %w", email, err)
	}
	return s.GetByID(ctx, id)
}
