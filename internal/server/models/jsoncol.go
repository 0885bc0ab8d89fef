package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Roles is a set of role tags stored as a JSON array column.
type Roles []string

func (r Roles) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(r))
	return string(b), err
}

func (r *Roles) Scan(value any) error {
	return scanJSON(value, r)
}

// ProviderIDs maps a provider name ("google") to the external subject id.
type ProviderIDs map[string]string

func (p ProviderIDs) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(p))
	return string(b), err
}

func (p *ProviderIDs) Scan(value any) error {
	return scanJSON(value, p)
}

// ProviderToken is the token pair a provider issued on its own behalf.
// It is kept for downstream calls to that provider only.
type ProviderToken struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// ProviderTokens maps a provider name to its latest ProviderToken.
type ProviderTokens map[string]ProviderToken

func (p ProviderTokens) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]ProviderToken(p))
	return string(b), err
}

func (p *ProviderTokens) Scan(value any) error {
	return scanJSON(value, p)
}

func scanJSON(value any, dst any) error {
	var b []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported json column type %T", value)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
