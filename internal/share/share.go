// Package share issues access links to the break roster and renders the
// invitation emails that carry them. Links are simulated: tokens identify a
// link but grant nothing on their own.
package share

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Permission string

const (
	PermissionView  Permission = "view"
	PermissionEdit  Permission = "edit"
	PermissionAdmin Permission = "admin"
)

// ParsePermission accepts a permission name in any case.
func ParsePermission(s string) (Permission, error) {
	switch p := Permission(strings.ToLower(strings.TrimSpace(s))); p {
	case PermissionView, PermissionEdit, PermissionAdmin:
		return p, nil
	}
	return "", fmt.Errorf("unknown permission %q (use view, edit or admin)", s)
}

// Label is the capitalized name used in invitations.
func (p Permission) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// TokenPrefix marks every token as a test credential.
const TokenPrefix = "test_"

const day = 24 * time.Hour

var (
	ErrInvalidEmail = errors.New("invalid recipient email")
	ErrInvalidDays  = errors.New("expiration must be at least one day")
)

type Link struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name,omitempty"`
	Permission   Permission `json:"permissions"`
	Token        string     `json:"token"`
	URL          string     `json:"url"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	AccessCount  int        `json:"accessCount"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
	Active       bool       `json:"isActive"`
}

// NewToken returns a fresh test token.
func NewToken() string {
	return TokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Create builds an active link for email that expires days after now.
func Create(baseURL, email, name string, perm Permission, days int, now time.Time) (Link, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return Link{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if days < 1 {
		return Link{}, ErrInvalidDays
	}
	if _, err := ParsePermission(string(perm)); err != nil {
		return Link{}, err
	}

	token := NewToken()
	return Link{
		ID:         uuid.NewString(),
		Email:      addr.Address,
		Name:       strings.TrimSpace(name),
		Permission: perm,
		Token:      token,
		URL:        strings.TrimRight(baseURL, "/") + "/" + token,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(days) * day),
		Active:     true,
	}, nil
}

// Status reports whether l can still be used at now. Revocation wins over
// expiry.
func (l Link) Status(now time.Time) Status {
	switch {
	case !l.Active:
		return StatusRevoked
	case l.ExpiresAt.Before(now):
		return StatusExpired
	default:
		return StatusActive
	}
}

// Revoke deactivates the link.
func (l *Link) Revoke() {
	l.Active = false
}

// RecordAccess counts a use of the link. Revoked or expired links are not
// counted and report false.
func (l *Link) RecordAccess(now time.Time) bool {
	if l.Status(now) != StatusActive {
		return false
	}
	l.AccessCount++
	l.LastAccessed = &now
	return true
}
