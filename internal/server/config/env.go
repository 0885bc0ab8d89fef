package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables the server reads.
type EnvConfig struct {
	EndpointAddrGRPC             string        `env:"GRPC_ADDR"`
	DatabaseDSN                  string        `env:"DATABASE_DSN"`
	SecretKey                    string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"REFRESH_TOKEN_TTL"`
	BcryptCost                   int           `env:"BCRYPT_COST"`
	LogBackend                   string        `env:"LOG_BACKEND"`
	LogLevel                     string        `env:"LOG_LEVEL"`
	NATSURL                      string        `env:"NATS_URL"`
	NATSVerifySubject            string        `env:"NATS_VERIFY_SUBJECT"`
	NATSVerifyQueue              string        `env:"NATS_VERIFY_QUEUE"`
	NATSAccountEventsSubject     string        `env:"NATS_ACCOUNT_EVENTS_SUBJECT"`
	GoogleClientID               string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret           string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL            string        `env:"GOOGLE_REDIRECT_URL"`
}

const envPrefix = "GOPHAUTH_"

// dotEnvFile is loaded before the environment is read. Variables already
// set in the process environment win over the file.
var dotEnvFile = ".env"

// parseEnv overlays GOPHAUTH_* variables onto config. A missing .env file
// is not an error; a malformed one or an unparsable value panics.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	c := EnvConfig{}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setInt(&config.BcryptCost, c.BcryptCost)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.NATSURL, c.NATSURL)
	setString(&config.NATSVerifySubject, c.NATSVerifySubject)
	setString(&config.NATSVerifyQueue, c.NATSVerifyQueue)
	setString(&config.NATSAccountEventsSubject, c.NATSAccountEventsSubject)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleClientSecret)
	setString(&config.GoogleRedirectURL, c.GoogleRedirectURL)
}
