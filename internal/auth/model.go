package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	LoginTypeUser  = "user"
	LoginTypeAdmin = "admin"
)

// gin context keys set by the auth middleware
const (
	ContextUserKey   = "user"
	ContextClaimsKey = "claims"
)

// User is the profile stored under user:<id>.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Credential is stored apart from the profile so profile scans never carry hashes.
type Credential struct {
	UserID       string    `json:"userId"`
	PasswordHash string    `json:"passwordHash"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// AuthResult is what signup and login hand back to the caller.
type AuthResult struct {
	User    *User   `json:"user"`
	Session Session `json:"session"`
	IsAdmin bool    `json:"isAdmin"`
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}
