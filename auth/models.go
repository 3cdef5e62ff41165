package auth

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register. New accounts accept the
// privacy policy by default.
type RegisterRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required"`
	ConsentPrivacy   bool   `json:"consent_privacy"`
	ConsentMarketing bool   `json:"consent_marketing"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Me is the identity returned by GET /auth/me.
type Me struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
