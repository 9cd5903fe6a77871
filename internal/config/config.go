// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// Environment variables read by Load.
const (
	EnvLogLevel    = "IMAGE_MCP_LOG_LEVEL"
	EnvPreviewSize = "IMAGE_MCP_PREVIEW_SIZE"
	EnvJPEGQuality = "IMAGE_MCP_JPEG_QUALITY"
	EnvFile        = "IMAGE_MCP_ENV_FILE"
)

// DefaultEnvFile is read when EnvFile is unset.
const DefaultEnvFile = ".env"

// Config holds the settings shared by the server and the script runner.
type Config struct {
	// LogLevel is "info" or "debug".
	LogLevel string

	// PreviewSize is the longest edge of preview thumbnails in pixels.
	PreviewSize int

	// JPEGQuality is used when saving .jpg/.jpeg files (1-100).
	JPEGQuality int

	// EnvFile is the .env path that was consulted.
	EnvFile string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		PreviewSize: imaging.DefaultPreviewSize,
		JPEGQuality: imaging.DefaultJPEGQuality,
		EnvFile:     DefaultEnvFile,
	}
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// SaveOptions returns the codec options derived from c.
func (c *Config) SaveOptions() imaging.SaveOptions {
	return imaging.SaveOptions{JPEGQuality: c.JPEGQuality}
}

// Load reads the .env file named by IMAGE_MCP_ENV_FILE (default ".env")
// and then the process environment, whose non-empty values take
// precedence. A missing .env file is not an error.
//
// The returned Config is always usable: settings that fail to parse keep
// their defaults and are reported together in the error.
func Load() (*Config, error) {
	path := os.Getenv(EnvFile)
	if path == "" {
		path = DefaultEnvFile
	}

	fileVars, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			cfg.EnvFile = path
			return cfg, fmt.Errorf("failed to read %s: %w", path, err)
		}
		fileVars = nil
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	cfg, err := FromLookup(lookup)
	cfg.EnvFile = path
	return cfg, err
}

// FromLookup builds a Config from a key lookup such as os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	var errs []error

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		level := strings.ToLower(strings.TrimSpace(v))
		switch level {
		case "debug", "info":
			cfg.LogLevel = level
		default:
			errs = append(errs, fmt.Errorf("%s: unknown level %q", EnvLogLevel, v))
		}
	}

	if v, ok := lookup(EnvPreviewSize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("%s: want a positive integer, got %q", EnvPreviewSize, v))
		} else {
			cfg.PreviewSize = n
		}
	}

	if v, ok := lookup(EnvJPEGQuality); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 || n > 100 {
			errs = append(errs, fmt.Errorf("%s: want 1-100, got %q", EnvJPEGQuality, v))
		} else {
			cfg.JPEGQuality = n
		}
	}

	return cfg, errors.Join(errs...)
}
