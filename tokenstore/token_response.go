package tokenstore

// TokenResponse is the body returned by the login, register and refresh
// endpoints: {"access_token": "...", "refresh_token": "...", "token_type": "bearer"}.
type TokenResponse struct {
	// AccessToken is the bearer credential sent as "Authorization: Bearer <access_token>".
	AccessToken *string `json:"access_token,omitempty"`

	// RefreshToken is optional; when present it replaces the stored one.
	RefreshToken *string `json:"refresh_token,omitempty"`

	// TokenType is informational, always "bearer" in practice.
	TokenType string `json:"token_type,omitempty"`
}

// Credentials converts the response into a credential pair. ok is false when
// no usable access token was issued.
func (t TokenResponse) Credentials() (creds Credentials, ok bool) {
	if t.AccessToken == nil || *t.AccessToken == "" {
		return Credentials{}, false
	}
	creds.AccessToken = *t.AccessToken
	if t.RefreshToken != nil && *t.RefreshToken != "" {
		rt := *t.RefreshToken
		creds.RefreshToken = &rt
	}
	return creds, true
}
