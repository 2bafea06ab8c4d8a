package model

// LoginRequest is the body of POST /auth/login/
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the body of POST /auth/register/
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name"`
}

// RefreshRequest carries a refresh token, used by refresh and logout
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenPair is an access and refresh JWT
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	TokenPair
	User User `json:"user"`
}
