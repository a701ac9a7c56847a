package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/bitmap/archive"
)

// configEnv names the environment variable consulted when --config is not
// given.
const configEnv = "BITMAPARCHIVE_CONFIG"

// config holds the archive defaults that flags may override.
type config struct {
	// Compression is the backend name: lzo, zlib, zstd or lz4.
	Compression string `yaml:"compression"`

	// ZlibLevel is the zlib level, -2 to 9. Ignored by other backends.
	ZlibLevel int `yaml:"zlib_level"`

	// Checksum stores a BLAKE3 checksum of the pixels in every archive.
	Checksum bool `yaml:"checksum"`
}

func defaultConfig() config {
	return config{
		Compression: archive.CompressionZlib.String(),
		ZlibLevel:   archive.DefaultZlibLevel,
	}
}

// loadConfig reads path over the defaults. An empty path falls back to
// $BITMAPARCHIVE_CONFIG; with neither set the defaults are returned.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c config) validate() error {
	if _, err := archive.ParseCompression(c.Compression); err != nil {
		return err
	}
	if c.ZlibLevel < -2 || c.ZlibLevel > 9 {
		return errors.New("zlib_level must be between -2 and 9")
	}
	return nil
}

// options converts c to archive options.
func (c config) options() ([]archive.Option, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	tag, _ := archive.ParseCompression(c.Compression)
	return []archive.Option{
		archive.WithCompression(tag),
		archive.WithZlibLevel(c.ZlibLevel),
		archive.WithChecksum(c.Checksum),
	}, nil
}
