package models

import "time"

// RefreshToken is the server-side record of an issued refresh token.
// A record with Revoked set can never be redeemed again.
type RefreshToken struct {
	ID        string
	AccountID string
	Token     string
	Used      bool
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
