// Package config loads CLI and server settings.
//
// Values are looked up in order: process environment, ./.env,
// ~/.foxie/.env, ~/.foxie/config.yaml, then built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"foxie/internal/artifact"
)

const (
	EnvAPIKey    = "GOOGLE_API_KEY"
	DefaultModel = "gemini-2.5-flash"
	DefaultAddr  = ":8080"
)

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type Config struct {
	Model           string            `yaml:"model"`
	Backend         string            `yaml:"backend"`
	Mode            string            `yaml:"mode"`
	Addr            string            `yaml:"addr"`
	LogLevel        string            `yaml:"log_level"`
	KnowledgeDir    string            `yaml:"knowledge_dir"`
	KnowledgePrefix string            `yaml:"knowledge_prefix"`
	CompactGuide    bool              `yaml:"compact_guide"`
	DatabaseURL     string            `yaml:"database_url"`
	MaxSteps        int               `yaml:"max_steps"`
	Retry           RetryConfig       `yaml:"retry"`
	RateLimit       RateLimitConfig   `yaml:"rate_limit"`
	S3              artifact.S3Config `yaml:"s3"`

	// Home is the per-user directory holding .env and config.yaml.
	Home string `yaml:"-"`

	layers []layer
}

type layer struct {
	name string
	get  func(key string) string
}

// Options points LoadFrom at explicit directories.
type Options struct {
	WorkDir string
	Home    string
}

// DefaultHome is $FOXIE_HOME or ~/.foxie.
func DefaultHome() string {
	if h := strings.TrimSpace(os.Getenv("FOXIE_HOME")); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".foxie"
	}
	return filepath.Join(home, ".foxie")
}

func Load() (*Config, error) {
	return LoadFrom(Options{WorkDir: ".", Home: DefaultHome()})
}

func LoadFrom(o Options) (*Config, error) {
	cfg := &Config{Home: o.Home}
	cfg.layers = append(cfg.layers, layer{name: "environment", get: func(k string) string {
		return strings.TrimSpace(os.Getenv(k))
	}})
	for _, f := range []struct{ name, dir string }{
		{".env", o.WorkDir},
		{"~/.foxie/.env", o.Home},
	} {
		if f.dir == "" {
			continue
		}
		values, err := readDotenv(filepath.Join(f.dir, ".env"))
		if err != nil {
			return nil, err
		}
		if values != nil {
			cfg.layers = append(cfg.layers, layer{name: f.name, get: func(k string) string {
				return strings.TrimSpace(values[k])
			}})
		}
	}
	if o.Home != "" {
		if err := cfg.readYAML(filepath.Join(o.Home, "config.yaml")); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func readDotenv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

func (c *Config) readYAML(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Model = firstNonEmpty(c.lookup("GEMINI_MODEL"), c.Model, DefaultModel)
	c.Backend = firstNonEmpty(c.lookup("FOXIE_DATABASE_TYPE"), c.Backend)
	c.Mode = firstNonEmpty(c.lookup("FOXIE_MODE"), c.Mode)
	c.LogLevel = firstNonEmpty(c.lookup("FOXIE_LOG_LEVEL"), c.LogLevel, "info")
	c.KnowledgeDir = firstNonEmpty(c.lookup("FOXIE_KNOWLEDGE_DIR"), c.KnowledgeDir)
	c.KnowledgePrefix = firstNonEmpty(c.lookup("FOXIE_KNOWLEDGE_PREFIX"), c.KnowledgePrefix, "knowledge")
	c.DatabaseURL = firstNonEmpty(c.lookup("DATABASE_URL"), c.DatabaseURL)

	c.Addr = firstNonEmpty(c.Addr, DefaultAddr)
	if port := c.lookup("PORT"); port != "" {
		if strings.HasPrefix(port, ":") {
			c.Addr = port
		} else {
			c.Addr = ":" + port
		}
	}
	if n, err := strconv.Atoi(c.lookup("FOXIE_MAX_STEPS")); err == nil && n > 0 {
		c.MaxSteps = n
	}
	if v, err := strconv.ParseBool(c.lookup("FOXIE_COMPACT_GUIDE")); err == nil {
		c.CompactGuide = v
	}

	c.S3.Endpoint = firstNonEmpty(c.lookup("ARTIFACT_S3_ENDPOINT"), c.S3.Endpoint)
	c.S3.Region = firstNonEmpty(c.lookup("ARTIFACT_S3_REGION"), c.S3.Region, "us-east-1")
	c.S3.AccessKey = firstNonEmpty(c.lookup("ARTIFACT_S3_ACCESS_KEY"), c.lookup("MINIO_ROOT_USER"), c.S3.AccessKey)
	c.S3.SecretKey = firstNonEmpty(c.lookup("ARTIFACT_S3_SECRET_KEY"), c.lookup("MINIO_ROOT_PASSWORD"), c.S3.SecretKey)
	c.S3.Bucket = firstNonEmpty(c.lookup("ARTIFACT_S3_BUCKET"), c.S3.Bucket)
	if v, err := strconv.ParseBool(c.lookup("ARTIFACT_S3_USE_SSL")); err == nil {
		c.S3.UseSSL = v
	}
}

// Lookup returns the first non-empty value for key and the name of the
// layer it came from.
func (c *Config) Lookup(key string) (string, string) {
	for _, l := range c.layers {
		if v := l.get(key); v != "" {
			return v, l.name
		}
	}
	return "", ""
}

func (c *Config) lookup(key string) string {
	v, _ := c.Lookup(key)
	return v
}

// APIKey resolves the Gemini key. An explicit flag value wins over every
// configured source. An empty result means no key was found anywhere.
func (c *Config) APIKey(flagValue string) (key, source string) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, "flag"
	}
	return c.Lookup(EnvAPIKey)
}

// SaveAPIKey stores key in home/.env, keeping any other entries.
func SaveAPIKey(home, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("config: empty api key")
	}
	if err := os.MkdirAll(home, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(home, ".env")
	values, err := readDotenv(path)
	if err != nil {
		return "", err
	}
	if values == nil {
		values = map[string]string{}
	}
	values[EnvAPIKey] = key
	if err := godotenv.Write(values, path); err != nil {
		return "", err
	}
	return path, os.Chmod(path, 0o600)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
