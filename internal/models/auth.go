package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"jdoe"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// LoginResponse is returned on successful authentication. The session
// token is also set as an HttpOnly cookie.
type LoginResponse struct {
	Token       string      `json:"token"`
	ExpiresIn   int64       `json:"expires_in"` // seconds
	User        UserProfile `json:"user"`
	Roles       []string    `json:"roles"`
	Departments []string    `json:"departments"` // accessible departments, home included
}

// DirectoryAttributesRequest asks the directory for a user's raw
// attribute set (diagnostic display only).
type DirectoryAttributesRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionIdentity is the strongly-typed identity resolved once per
// request from the server-side session entry. Downstream checks receive
// this struct instead of re-parsing a claim bag.
type SessionIdentity struct {
	Username          string    `json:"username"`
	UserID            string    `json:"user_id"`
	UserCode          string    `json:"user_code"`
	UserEmail         string    `json:"user_email"`
	DepartmentName    string    `json:"department_name"`
	PlantName         string    `json:"plant_name"`
	DetailTHFirstName string    `json:"detail_th_first_name"`
	DetailTHLastName  string    `json:"detail_th_last_name"`
	DetailENFirstName string    `json:"detail_en_first_name"`
	DetailENLastName  string    `json:"detail_en_last_name"`
	LoginAt           time.Time `json:"login_at"`
	Roles             []string  `json:"roles"`
}

// HasRole reports whether the identity carries the given role
// (case-insensitive).
func (s *SessionIdentity) HasRole(name string) bool {
	for _, r := range s.Roles {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries the Admin role
func (s *SessionIdentity) IsAdmin() bool {
	return s.HasRole("Admin")
}

// SessionClaims is the signed session token payload. The token carries
// only a reference to the server-side session entry; the identity itself
// never leaves the server.
type SessionClaims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}
