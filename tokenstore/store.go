package tokenstore

// Durable storage keys.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refresh_token"
)

// Credentials is the access/refresh token pair issued by login, register or refresh.
type Credentials struct {
	AccessToken  string  // "" when no session is stored
	RefreshToken *string // nil when the server never issued one
}

// HasSession reports whether an access token is present.
func (c Credentials) HasSession() bool {
	return c.AccessToken != ""
}

// Store persists credentials across runs. It is the durability mirror of the
// session, never the read path for an in-flight request's Authorization header.
//
// Implementations must tolerate storage being unavailable: failures are logged
// and swallowed, leaving the session memory-only for that operation.
type Store interface {
	// Save stores the access token. A nil refreshToken leaves the stored refresh
	// token untouched.
	Save(accessToken string, refreshToken *string)

	// Load returns the stored credentials, or empty Credentials when none are
	// stored or storage cannot be read.
	Load() Credentials

	// Clear removes both keys.
	Clear()
}
