package repo

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config stores repository-local settings.
type Config struct {
	Store StoreConfig `toml:"store"`
}

// StoreConfig tunes the object store.
type StoreConfig struct {
	// CompressionLevel is the zstd level objects are written with.
	CompressionLevel int `toml:"compression_level"`
}

func defaultConfig() *Config {
	return &Config{
		Store: StoreConfig{CompressionLevel: 3},
	}
}

func configPath(oakDir string) string {
	return filepath.Join(oakDir, "config.toml")
}

// ReadConfig reads .oak/config.toml. A missing file returns the defaults.
func (r *Repo) ReadConfig() (*Config, error) {
	return readConfig(r.OakDir)
}

func readConfig(oakDir string) (*Config, error) {
	data, err := os.ReadFile(configPath(oakDir))
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	cfg := defaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "read config: unmarshal")
	}
	return cfg, nil
}

// WriteConfig atomically rewrites .oak/config.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	return writeConfig(r.OakDir, cfg)
}

func writeConfig(oakDir string, cfg *Config) error {
	if cfg == nil {
		cfg = defaultConfig()
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "write config: encode")
	}

	tmp, err := os.CreateTemp(oakDir, ".config-tmp-*")
	if err != nil {
		return errors.Wrap(err, "write config: tmpfile")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write config: write")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "write config: close")
	}
	if err := os.Rename(tmpName, configPath(oakDir)); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "write config: rename")
	}
	return nil
}
