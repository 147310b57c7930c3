package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/store"
)

const profileCollection = "profile"

// The profile is a single document per user.
const profileDocID = "main"

// ProfileStore implements store.ProfileStore on Badger.
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a ProfileStore.
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get retrieves the profile.
func (s *ProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	err := s.db.get(userKey(userID.String(), profileCollection, profileDocID), &profile)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Put stores the profile, replacing any existing record.
func (s *ProfileStore) Put(ctx context.Context, userID uuid.UUID, profile *domain.Profile) error {
	return s.db.put(userKey(userID.String(), profileCollection, profileDocID), profile)
}

// AddXP atomically applies XP and counter increments in a single
// transaction, so concurrent awards never lose updates.
func (s *ProfileStore) AddXP(ctx context.Context, userID uuid.UUID, xp, quizzes, notes int) (*domain.Profile, error) {
	key := userKey(userID.String(), profileCollection, profileDocID)

	var profile domain.Profile
	err := s.db.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
		if err != nil {
			return err
		}

		profile.AddXP(xp)
		profile.QuizzesTaken += quizzes
		profile.NotesCreated += notes

		data, err := json.Marshal(&profile)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("apply profile increments: %w", err)
	}

	s.db.notifier.publish(prefixOf(key))
	return &profile, nil
}

// Watch emits the profile on every change.
func (s *ProfileStore) Watch(ctx context.Context, userID uuid.UUID) (<-chan domain.Profile, store.CancelFunc, error) {
	prefix := string(userPrefix(userID.String(), profileCollection))
	return watchSnapshots(ctx, s.db, prefix, func() (domain.Profile, error) {
		profile, err := s.Get(ctx, userID)
		if err != nil {
			return domain.Profile{}, err
		}
		return *profile, nil
	})
}
