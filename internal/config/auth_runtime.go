package config

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultJWTAccessTTL    = "30m"
	defaultRefreshTTL      = "168h"
	defaultJWTIssuer       = "piq"
	defaultCookieSecure    = "false"
	defaultCookieSameSite  = "Lax"
	defaultCookiePath      = "/"
	defaultRotateOnReissue = "false"
	defaultJWTSecret       = "change-me-jwt-secret"

	minProdSecretLength = 32
)

type AuthConfig struct {
	JWTSecret       string
	JWTIssuer       string
	JWTAccessTTL    time.Duration
	RefreshTTL      time.Duration
	RotateOnReissue bool
	CookieSecure    bool
	CookieSameSite  string
	CookiePath      string
}

// SameSite maps the configured cookie attribute to its net/http value.
func (c AuthConfig) SameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}

func loadAuthConfig(appEnv string) (AuthConfig, error) {
	cfg := AuthConfig{}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWTIssuer = strings.TrimSpace(getEnv("JWT_ISSUER", defaultJWTIssuer))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return cfg, err
	}

	cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return cfg, err
	}

	cfg.RotateOnReissue = parseBoolEnv("REFRESH_ROTATE_ON_REISSUE", defaultRotateOnReissue)
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.CookieSameSite = strings.TrimSpace(getEnv("COOKIE_SAMESITE", defaultCookieSameSite))
	cfg.CookiePath = strings.TrimSpace(getEnv("COOKIE_PATH", defaultCookiePath))

	if err := validateAuthConfig(appEnv, cfg); err != nil {
		return cfg, err
	}

	log.Printf("auth cookie config: secure=%t, sameSite=%s, path=%s, rotateOnReissue=%t",
		cfg.CookieSecure, cfg.CookieSameSite, cfg.CookiePath, cfg.RotateOnReissue)

	return cfg, nil
}

func validateAuthConfig(appEnv string, cfg AuthConfig) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TTL must be > 0")
	}
	if cfg.CookiePath == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	sameSite := strings.ToLower(cfg.CookieSameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}

	if IsProdLike(appEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if len(cfg.JWTSecret) < minProdSecretLength {
			return fmt.Errorf("in prod/release JWT_SECRET must be at least %d bytes", minProdSecretLength)
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}
