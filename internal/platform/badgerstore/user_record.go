package badgerstore

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
)

// storedUser is the on-disk account record. The domain User's transient
// plaintext password is never persisted.
type storedUser struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	CreatedAt      int64     `json:"created_at"`
}

func marshalUser(u storedUser) ([]byte, error) {
	return json.Marshal(u)
}

func (u storedUser) toDomain() *domain.User {
	return &domain.User{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		CreatedAt:      time.UnixMilli(u.CreatedAt).UTC(),
	}
}
