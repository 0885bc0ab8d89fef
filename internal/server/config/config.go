// Package config handles configuration for the server component: defaults,
// an optional JSON file, a .env file plus GOPHAUTH_* environment variables,
// and finally command-line flags, each layer overriding the previous one.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the gophauth server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Required.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - BcryptCost: password hashing work factor.
//   - LogBackend / LogLevel: "slog" or "zerolog", and the minimum level.
//   - NATSURL: broker URL; empty disables NATS.
//   - NATSVerifySubject / NATSVerifyQueue: token verification responder.
//   - NATSAccountEventsSubject: subject for account.created events.
//   - GoogleClientID / GoogleClientSecret / GoogleRedirectURL: Google OAuth2
//     client; empty client id disables Google login.
type Config struct {
	EndpointAddrGRPC             string
	DatabaseDSN                  string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	BcryptCost                   int
	LogBackend                   string
	LogLevel                     string
	NATSURL                      string
	NATSVerifySubject            string
	NATSVerifyQueue              string
	NATSAccountEventsSubject     string
	GoogleClientID               string
	GoogleClientSecret           string
	GoogleRedirectURL            string
}

// LoadDefaults populates Config with development defaults. The secret key
// has no default and must be supplied.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.AccessTokenValidityDuration = time.Hour
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.BcryptCost = 10
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.NATSVerifySubject = "auth.verify"
	c.NATSVerifyQueue = "gophauth"
	c.NATSAccountEventsSubject = "account.created"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("access token validity must be positive"))
	}
	if c.RefreshTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("refresh token validity must be positive"))
	}
	if c.EndpointAddrGRPC == "" {
		errs = append(errs, errors.New("grpc endpoint address is required"))
	}
	if c.GoogleClientID != "" && (c.GoogleClientSecret == "" || c.GoogleRedirectURL == "") {
		errs = append(errs, errors.New("google client secret and redirect url are required with a client id"))
	}
	return errors.Join(errs...)
}
