/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gregjones/httpcache"
	"gopkg.in/yaml.v3"

	"github.com/mikeb26/boylstonchessclub-brackets/store"
)

const (
	BackendS3     = "s3"
	BackendDir    = "dir"
	BackendMemory = "memory"
)

// Config is the file based configuration shared by bracketctl and the
// discord bot. Every field may be overridden from the environment.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Discord DiscordConfig `yaml:"discord"`
	// WebCacheBucket caches club and USCF lookups.
	WebCacheBucket string `yaml:"webcacheBucket"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Bucket  string `yaml:"bucket"`
	Gzip    bool   `yaml:"gzip"`
	Dir     string `yaml:"dir"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

type DiscordConfig struct {
	AppID     string `yaml:"appId"`
	PublicKey string `yaml:"publicKey"`
	Token     string `yaml:"token"`
	CommandID string `yaml:"commandId"`
}

func DefaultConfig() Config {
	dir := ".bccbracket"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".local", "share", "bccbracket")
	}

	return Config{
		Store: StoreConfig{
			Backend: BackendDir,
			Bucket:  TournamentBucket,
			Gzip:    true,
			Dir:     dir,
		},
		Server:         ServerConfig{Listen: ":8080"},
		WebCacheBucket: WebCacheBucket,
	}
}

// ConfigPath is $BCCBRACKET_CONFIG, or config.yaml in the user's config dir.
func ConfigPath() string {
	if p := os.Getenv("BCCBRACKET_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "bccbracket.yaml"
	}
	return filepath.Join(dir, "bccbracket", "config.yaml")
}

// LoadConfig reads path on top of DefaultConfig. A missing file is not an
// error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("config: unable to read %v: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: unable to parse %v: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)

	switch cfg.Store.Backend {
	case BackendS3, BackendDir, BackendMemory:
	default:
		return cfg, fmt.Errorf("config: unknown store backend %q",
			cfg.Store.Backend)
	}

	return cfg, nil
}

func (cfg *Config) applyEnv(getenv func(string) string) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"BCCBRACKET_STORE", &cfg.Store.Backend},
		{"BCCBRACKET_BUCKET", &cfg.Store.Bucket},
		{"BCCBRACKET_DIR", &cfg.Store.Dir},
		{"BCCBRACKET_LISTEN", &cfg.Server.Listen},
		{"BCCBRACKET_WEBCACHE_BUCKET", &cfg.WebCacheBucket},
		{"DISCORD_APP_ID", &cfg.Discord.AppID},
		{"DISCORD_PUBLIC_KEY", &cfg.Discord.PublicKey},
		{"DISCORD_TOKEN", &cfg.Discord.Token},
		{"DISCORD_COMMAND_ID", &cfg.Discord.CommandID},
	}
	for _, o := range overrides {
		if v := getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// OpenBackend returns the tournament storage backend named by cfg.
func OpenBackend(ctx context.Context, cfg StoreConfig) (httpcache.Cache, error) {
	switch cfg.Backend {
	case BackendS3:
		b := store.NewS3Backend(ctx, cfg.Bucket, "tournaments", cfg.Gzip)
		if err := b.Init(); err != nil {
			return nil, err
		}
		return b, nil
	case BackendDir:
		return store.NewDirBackend(cfg.Dir)
	case BackendMemory:
		return httpcache.NewMemoryCache(), nil
	}

	return nil, fmt.Errorf("config: unknown store backend %q", cfg.Backend)
}
