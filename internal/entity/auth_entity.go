package entity

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"` // Only in JSON response, not cookie
	User         User   `json:"user"`
}

type TokenClaims struct {
	UserId string `json:"userId"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}
