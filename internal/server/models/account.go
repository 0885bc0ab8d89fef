package models

import (
	"slices"
	"strings"
	"time"
)

// Role tags carried by accounts and access tokens.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Account is a registered local identity, optionally linked to one or more
// external providers.
type Account struct {
	ID                 string
	Email              string
	Phone              string
	Name               string
	Avatar             string
	PasswordHash       string
	Roles              Roles
	ProviderIDs        ProviderIDs
	ProviderTokens     ProviderTokens
	AvailToSetPassword bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasIdentity reports whether the account carries an email, a phone or at
// least one provider identity.
func (a *Account) HasIdentity() bool {
	return a.Email != "" || a.Phone != "" || len(a.ProviderIDs) > 0
}

// HasPassword reports whether the account can log in with a local password.
func (a *Account) HasPassword() bool { return a.PasswordHash != "" }

// HasRole reports whether the account carries any of the given roles.
func (a *Account) HasRole(roles ...string) bool {
	return slices.ContainsFunc(roles, func(r string) bool { return slices.Contains(a.Roles, r) })
}

// Clone returns a deep copy so callers can mutate it without touching
// the stored value.
func (a *Account) Clone() *Account {
	c := *a
	c.Roles = slices.Clone(a.Roles)
	if a.ProviderIDs != nil {
		c.ProviderIDs = make(ProviderIDs, len(a.ProviderIDs))
		for k, v := range a.ProviderIDs {
			c.ProviderIDs[k] = v
		}
	}
	if a.ProviderTokens != nil {
		c.ProviderTokens = make(ProviderTokens, len(a.ProviderTokens))
		for k, v := range a.ProviderTokens {
			c.ProviderTokens[k] = v
		}
	}
	return &c
}

// AccountView is the public projection of an Account. It never carries the
// password hash or provider tokens.
type AccountView struct {
	ID                 string            `json:"id"`
	Email              string            `json:"email,omitempty"`
	Phone              string            `json:"phone,omitempty"`
	Name               string            `json:"name,omitempty"`
	Avatar             string            `json:"avatar,omitempty"`
	Roles              []string          `json:"roles"`
	ProviderIDs        map[string]string `json:"provider_ids,omitempty"`
	AvailToSetPassword bool              `json:"avail_to_set_password"`
	IsActive           bool              `json:"is_active"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// View projects the account to its public form.
func (a *Account) View() *AccountView {
	c := a.Clone()
	return &AccountView{
		ID:                 c.ID,
		Email:              c.Email,
		Phone:              c.Phone,
		Name:               c.Name,
		Avatar:             c.Avatar,
		Roles:              c.Roles,
		ProviderIDs:        c.ProviderIDs,
		AvailToSetPassword: c.AvailToSetPassword,
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// NewAccount returns an account with the store defaults applied: the plain
// user role, active, and empty provider maps.
func NewAccount() *Account {
	return &Account{
		Roles:          Roles{RoleUser},
		ProviderIDs:    ProviderIDs{},
		ProviderTokens: ProviderTokens{},
		IsActive:       true,
	}
}

// NormalizeEmail returns the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
