// Package authv1 defines the auth.v1.AuthService gRPC contract: request and
// response messages, a JSON codec, the service descriptor and a typed client.
package authv1

import "time"

type SignupRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type GoogleAuthURLRequest struct {
	State string `json:"state"`
}

type GoogleAuthURLResponse struct {
	URL string `json:"url"`
}

type GoogleLoginRequest struct {
	Code string `json:"code"`
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

// AccountRequest addresses another account; used by admin methods.
type AccountRequest struct {
	AccountID string `json:"account_id"`
}

type LogoutAllResponse struct {
	Revoked int64 `json:"revoked"`
}

// Empty is the request or response of methods without a payload.
type Empty struct{}

// Account is the public view of an account.
type Account struct {
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

// AuthResponse carries a freshly issued token pair. ExpiresIn is the access
// token lifetime in seconds.
type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	Account      *Account `json:"account,omitempty"`
}
