package refresh

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("refresh token not found")

// StoredRefreshToken is the server-side record of an issued refresh token.
// The client only ever sees Token, an opaque random string.
type StoredRefreshToken struct {
	Token  string
	UserID string
	Iat    time.Time

	// Successor is set once the token has been rotated.
	Successor string
	RotatedAt time.Time
}

// Repo stores refresh token metadata keyed by the token string. A user holds
// at most one current refresh token; rotated ones stay stored with their
// Successor. Upsert makes the token the user's current one.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	DeleteByUserID(userID string) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID string) (*StoredRefreshToken, error)
}
