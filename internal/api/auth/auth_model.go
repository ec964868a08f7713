package auth

import "github.com/tezga/tezga-server/internal/types"

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Name        string   `json:"name" example:"Ana"`                   // Display name. Required.
	Email       string   `json:"email" example:"ana@example.com"`      // Must be unique.
	Password    string   `json:"password" example:"Str0ngP@ss!"`       // Min length 6.
	Phone       string   `json:"phone" example:"060123456"`            // Required.
	Location    string   `json:"location" example:"Novi Sad"`          // Required.
	Tags        []string `json:"tags,omitempty" example:"wood,design"` // Optional category tags.
	Description *string  `json:"description,omitempty"`                // Optional free text.
}

// RegisterResponse represents the successful JSON response after registration.
type RegisterResponse struct {
	Token string     `json:"token" example:"eyJhbGciOiJI..."` // 30-day access token.
	User  PublicUser `json:"user"`
}

// PublicUser is the slim identity echoed back on registration.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Email    string `json:"email" example:"ana@example.com"`
	Password string `json:"password" example:"Str0ngP@ss!"`
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	Token string            `json:"token" example:"eyJhbGciOiJI..."`
	User  types.UserProfile `json:"user"` // Full sanitized profile.
}
