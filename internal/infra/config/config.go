package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envProduction = "production"

type Config struct {
	DatabaseURL string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	Issuer             string
	Audience           string
	PasswordPepper     string

	Env      string
	LogLevel string

	HTTPAddress   string
	HTTPSCertFile string
	HTTPSKeyFile  string

	AllowedOrigins   []string
	AllowCredentials bool
	CookiePath       string
	CookieDomain     string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
}

func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.SetDefault("ACCESS_TOKEN_EXPIRES_IN", "15m")
	v.SetDefault("REFRESH_TOKEN_EXPIRES_IN_DAYS", 7)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDRESS", ":4000")
	v.SetDefault("COOKIE_PATH", "/api/auth")
	v.SetDefault("ALLOW_CREDENTIALS", true)
	v.SetDefault("REDIS_DB", 0)

	v.AutomaticEnv()
	for _, key := range []string{
		"DATABASE_URL", "ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET",
		"ACCESS_TOKEN_EXPIRES_IN", "REFRESH_TOKEN_EXPIRES_IN_DAYS",
		"JWT_ISSUER", "JWT_AUDIENCE", "PASSWORD_PEPPER",
		"APP_ENV", "LOG_LEVEL", "HTTP_ADDRESS", "HTTPS_CERT_FILE", "HTTPS_KEY_FILE",
		"FRONT_END_URL", "ALLOWED_ORIGINS", "ALLOW_CREDENTIALS", "COOKIE_PATH", "COOKIE_DOMAIN",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:        v.GetString("DATABASE_URL"),
		AccessTokenSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: v.GetString("REFRESH_TOKEN_SECRET"),
		Issuer:             v.GetString("JWT_ISSUER"),
		Audience:           v.GetString("JWT_AUDIENCE"),
		PasswordPepper:     v.GetString("PASSWORD_PEPPER"),
		Env:                strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		HTTPAddress:        v.GetString("HTTP_ADDRESS"),
		HTTPSCertFile:      v.GetString("HTTPS_CERT_FILE"),
		HTTPSKeyFile:       v.GetString("HTTPS_KEY_FILE"),
		AllowCredentials:   v.GetBool("ALLOW_CREDENTIALS"),
		CookiePath:         v.GetString("COOKIE_PATH"),
		CookieDomain:       v.GetString("COOKIE_DOMAIN"),
		RedisAddress:       v.GetString("REDIS_ADDRESS"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
	}

	var missing []string
	for _, req := range []struct{ key, val string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"ACCESS_TOKEN_SECRET", cfg.AccessTokenSecret},
		{"REFRESH_TOKEN_SECRET", cfg.RefreshTokenSecret},
	} {
		if req.val == "" {
			missing = append(missing, req.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, errors.New("config: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	ttl, err := time.ParseDuration(v.GetString("ACCESS_TOKEN_EXPIRES_IN"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("config: bad ACCESS_TOKEN_EXPIRES_IN %q", v.GetString("ACCESS_TOKEN_EXPIRES_IN"))
	}
	cfg.AccessTokenTTL = ttl

	days := v.GetInt("REFRESH_TOKEN_EXPIRES_IN_DAYS")
	if days <= 0 {
		return nil, fmt.Errorf("config: REFRESH_TOKEN_EXPIRES_IN_DAYS must be positive, got %d", days)
	}
	cfg.RefreshTokenTTL = time.Duration(days) * 24 * time.Hour

	origins, err := parseOrigins(v.GetString("ALLOWED_ORIGINS"))
	if err != nil {
		return nil, err
	}
	if len(origins) == 0 {
		if cfg.IsProduction() {
			if front := v.GetString("FRONT_END_URL"); front != "" {
				origins = []string{front}
			}
		} else {
			origins = []string{"http://localhost:5173"}
		}
	}
	if len(origins) == 0 {
		return nil, errors.New("config: ALLOWED_ORIGINS or FRONT_END_URL is required in production")
	}
	cfg.AllowedOrigins = origins

	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
		if cfg.IsProduction() {
			cfg.LogLevel = "info"
		}
	}

	return cfg, nil
}

// parseOrigins accepts a JSON array or a comma separated list.
func parseOrigins(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, fmt.Errorf("config: bad ALLOWED_ORIGINS: %w", err)
		}
		return out, nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
