package main

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-driven server configuration. It satisfies
// users.Config for the token and gate wiring.
type Config struct {
	HTTPAddr string `env:"USERS_HTTP_ADDR" envDefault:":8080"`
	Debug    bool   `env:"USERS_DEBUG" envDefault:"false"`

	SigningKey    string        `env:"USERS_SIGNING_KEY" envDefault:"insecure-dev-signing-key"`
	SigningMethod string        `env:"USERS_SIGNING_METHOD" envDefault:"HS256"`
	AccessTTL     time.Duration `env:"USERS_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"USERS_REFRESH_TOKEN_TTL" envDefault:"168h"`
	Issuer        string        `env:"USERS_TOKEN_ISSUER" envDefault:"go-users"`
	Audience      []string      `env:"USERS_TOKEN_AUDIENCE" envSeparator:","`
	ContextKey    string        `env:"USERS_CONTEXT_KEY" envDefault:"user"`
	TokenLookup   string        `env:"USERS_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme    string        `env:"USERS_AUTH_SCHEME" envDefault:"Bearer"`

	Database DatabaseConfig
}

// DatabaseConfig holds the persistence settings
type DatabaseConfig struct {
	Driver      string        `env:"USERS_DB_DRIVER" envDefault:"sqlite"`
	DSN         string        `env:"USERS_DB_DSN" envDefault:"file:users.db?cache=shared&_pragma=foreign_keys(1)"`
	PingTimeout time.Duration `env:"USERS_DB_PING_TIMEOUT" envDefault:"5s"`
}

// LoadConfig parses the environment into a Config
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) GetSigningKey() string             { return c.SigningKey }
func (c *Config) GetSigningMethod() string          { return c.SigningMethod }
func (c *Config) GetContextKey() string             { return c.ContextKey }
func (c *Config) GetAccessTokenTTL() time.Duration  { return c.AccessTTL }
func (c *Config) GetRefreshTokenTTL() time.Duration { return c.RefreshTTL }
func (c *Config) GetTokenLookup() string            { return c.TokenLookup }
func (c *Config) GetAuthScheme() string             { return c.AuthScheme }
func (c *Config) GetIssuer() string                 { return c.Issuer }
func (c *Config) GetAudience() []string             { return c.Audience }

func (d DatabaseConfig) GetDriver() string             { return d.Driver }
func (d DatabaseConfig) GetDSN() string                { return d.DSN }
func (d DatabaseConfig) GetPingTimeout() time.Duration { return d.PingTimeout }
func (d DatabaseConfig) GetDebug() bool                { return false }
