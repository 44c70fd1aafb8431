package cityresolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = "config.json"

// LoadConfig loads configuration from the given path or the default config.json.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Cache.Backend == CacheDisk {
		if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
			return cfg, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// Validate rejects settings the runtime cannot honour.
func (c Config) Validate() error {
	if c.Fuzzy.Cutoff > 1 {
		return fmt.Errorf("fuzzy cutoff %.2f is above 1", c.Fuzzy.Cutoff)
	}
	switch c.Annotator.Backend {
	case BackendRules, BackendONNX:
	default:
		return fmt.Errorf("unknown annotator backend %q", c.Annotator.Backend)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheDisk, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		return errors.New("redis cache requires redisUrl")
	}
	switch c.OnError {
	case OnErrorSkip, OnErrorAbort:
	default:
		return fmt.Errorf("unknown onError policy %q", c.OnError)
	}
	return nil
}
