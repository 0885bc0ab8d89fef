// Package google turns a Google OAuth2 authorization code into a verified
// social profile.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// UserInfoURL is Google's OAuth2 v2 userinfo endpoint.
const UserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var scopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// ErrExchange is returned when the authorization code cannot be redeemed.
var ErrExchange = errors.New("google code exchange failed")

// Provider performs the authorization-code flow against Google.
type Provider struct {
	config      oauth2.Config
	userInfoURL string
}

// Option customizes a Provider.
type Option func(*Provider)

// WithEndpoint overrides the OAuth2 endpoint.
func WithEndpoint(e oauth2.Endpoint) Option {
	return func(p *Provider) { p.config.Endpoint = e }
}

// WithUserInfoURL overrides the userinfo endpoint.
func WithUserInfoURL(u string) Option {
	return func(p *Provider) { p.userInfoURL = u }
}

func NewProvider(clientID, clientSecret, redirectURL string, opts ...Option) *Provider {
	p := &Provider{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL: UserInfoURL,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// AuthCodeURL returns the consent page URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

type userInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Exchange redeems code and fetches the user's profile. An email Google
// has not verified is dropped, so the profile is matched by Google id only.
func (p *Provider) Exchange(ctx context.Context, code string) (*models.SocialProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("user info: unexpected status %d: %s", resp.StatusCode, body)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if info.ID == "" {
		return nil, errors.New("user info: missing id")
	}

	profile := &models.SocialProfile{
		Provider:     models.ProviderGoogle,
		ProviderID:   info.ID,
		Name:         info.Name,
		Avatar:       info.Picture,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if info.VerifiedEmail {
		profile.Email = info.Email
	}
	return profile, nil
}
