package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is loaded once at startup and passed by value to every component
// that needs it. Nothing mutates it afterwards.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	JWT      JWTConfig      `koanf:"jwt"`
	Database DatabaseConfig `koanf:"database"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
	Mode string `koanf:"mode"`
}

type JWTConfig struct {
	Secret    string `koanf:"secret"`
	ExpiresIn string `koanf:"expiresIn"`
}

type DatabaseConfig struct {
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Addr     string `koanf:"addr"`
	Name     string `koanf:"name"`
}

// Load reads config.json (when present) and applies BLOG_* environment
// overrides. A missing jwt.secret is fatal: the server must not issue or
// verify tokens without one.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			if !os.IsNotExist(err) && !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("BLOG_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "BLOG_")), "_", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if !k.Exists("server.addr") {
		k.Set("server.addr", ":8080")
	}
	if !k.Exists("jwt.expiresIn") {
		k.Set("jwt.expiresIn", "7d")
	}
	if !k.Exists("database.addr") {
		k.Set("database.addr", "127.0.0.1:3306")
	}
	if !k.Exists("database.name") {
		k.Set("database.name", "blog")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return Config{}, errors.New("jwt.secret is required")
	}

	return cfg, nil
}
