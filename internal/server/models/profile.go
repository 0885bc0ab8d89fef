package models

// Provider names.
const (
	ProviderGoogle = "google"
)

// SocialProfile is an identity already verified by a third-party provider.
// Provider and ProviderID identify it; the rest is optional.
type SocialProfile struct {
	Provider     string
	ProviderID   string
	Email        string
	Name         string
	Avatar       string
	AccessToken  string
	RefreshToken string
}
