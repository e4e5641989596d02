package api

import "github.com/kbukum/authgate/auth/issuer"

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

// RegisterRequest is the body of POST /v1/auth/register. Email defaults to
// <username>@example.com.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64,username"`
	Password string `json:"password" validate:"required,max=128"`
	Email    string `json:"email,omitempty" validate:"omitempty,email,max=254"`
}

// RefreshRequest is the body of POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenResponse answers a successful login or refresh.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	Username     string `json:"username"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func newTokenResponse(p *issuer.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		Username:     p.Subject,
		ExpiresIn:    p.ExpiresIn,
	}
}

// MessageResponse answers register and logout.
type MessageResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// MeResponse answers GET /v1/me.
type MeResponse struct {
	Username string `json:"username"`
}

const (
	msgRegistered = "User registered successfully. Use login endpoint to get JWT token"
	msgLoggedOut  = "Logged out successfully"
	unknownUser   = "unknown"
)
