// Package models holds client-side data types.
package models

import "time"

// Session is the locally cached login: the account it belongs to and its
// current token pair.
type Session struct {
	AccountID    string
	Email        string
	Phone        string
	AccessToken  string
	RefreshToken string
	// AccessExpiresAt is when the access token stops being accepted.
	AccessExpiresAt time.Time
	UpdatedAt       time.Time
}

// AccessExpired reports whether the cached access token is past its lifetime.
func (s *Session) AccessExpired(now time.Time) bool {
	return !s.AccessExpiresAt.IsZero() && !now.Before(s.AccessExpiresAt)
}

// Identity returns the email, or the phone for phone-only accounts.
func (s *Session) Identity() string {
	if s.Email != "" {
		return s.Email
	}
	return s.Phone
}
