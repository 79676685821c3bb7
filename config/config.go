// Package config holds the service configuration, read from the
// environment with documented defaults.
package config

import (
	"errors"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full configuration for kaku.
type Config struct {
	// BaseURL is the absolute URL this service is reachable at,
	// without a trailing slash, e.g. "https://example.com".
	BaseURL string `env:"KAKU_BASE_URL"`

	// BaseRoute is the path prefix posts live under, used to decide
	// whether a webmention target belongs to this site.
	BaseRoute string `env:"KAKU_BASE_ROUTE" envDefault:"/"`

	// ClientID identifies this site when redirecting users to their
	// authorization endpoint, e.g. "https://example.com/".
	ClientID string `env:"KAKU_CLIENT_ID"`

	// OurDomain is the only domain tokens may publish for. Derived
	// from ClientID when left unset.
	OurDomain string `env:"KAKU_OUR_DOMAIN"`

	// Secret signs the browser session cookie.
	Secret string `env:"KAKU_SECRET"`

	// AuthTimeout bounds how long a login attempt may stay pending.
	AuthTimeout time.Duration `env:"KAKU_AUTH_TIMEOUT" envDefault:"300s"`

	// VouchRequired rejects webmentions that cannot present a valid
	// vouch.
	VouchRequired bool `env:"KAKU_VOUCH_REQUIRED" envDefault:"false"`

	// RequestTimeout bounds every outgoing verification request.
	RequestTimeout time.Duration `env:"KAKU_REQUEST_TIMEOUT" envDefault:"10s"`

	RedisAddr string `env:"KAKU_REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisDB   int    `env:"KAKU_REDIS_DB" envDefault:"0"`
}

// FromEnv reads configuration from the environment, filling defaults
// and deriving OurDomain from ClientID when it was not given.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}

	if cfg.ClientID == "" {
		return cfg, errors.New("KAKU_CLIENT_ID must be set")
	}

	if cfg.OurDomain == "" {
		u, err := url.Parse(cfg.ClientID)
		if err != nil || u.Host == "" {
			return cfg, errors.New("KAKU_CLIENT_ID must be an absolute URL")
		}
		cfg.OurDomain = u.Host
	}

	return cfg, nil
}
