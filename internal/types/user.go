package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserProfile is the outward-facing view of a user record.
type UserProfile struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	Tags         []string  `json:"tags"`
	Description  *string   `json:"description,omitempty"`
	PasswordHash string    `json:"-"` // Exclude from JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// UserAuth is the internal user record including credential material.
// It never crosses the HTTP boundary.
type UserAuth struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Location     string
	Tags         []string
	Description  *string
	CreatedAt    time.Time
}

// Claims is the identity assertion embedded in an access token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Response is the generic success/error envelope for simple endpoints.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
