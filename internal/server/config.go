package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/rental-cashflow/internal/config"
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	MaxUploadSize  ByteSize             `yaml:"maxUploadSize"`
	AllowedOrigins []string             `yaml:"allowedOrigins"`
	Logging        config.LoggingConfig `yaml:"logging"`
	Storage        config.StorageConfig `yaml:"storage"`
	Cache          config.CacheConfig   `yaml:"cache"`
}

// ByteSize is a request size written as "256K", "2MB" or a plain byte count.
type ByteSize int64

// UnmarshalYAML parses the scalar with ParseSize.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	size, err := ParseSize(node.Value)
	if err != nil {
		return err
	}
	*b = ByteSize(size)
	return nil
}

// LoadConfig reads the server configuration at path. A missing file or an
// empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: ByteSize(constants.DefaultMaxUploadSizeBytes),
		Storage:       config.StorageConfig{Path: constants.DefaultStoragePath},
		Cache:         config.CacheConfig{TTL: constants.DefaultCacheTTL},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the request body limit in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return int64(c.MaxUploadSize)
}

// applyDefaults restores defaults for fields a file blanked out.
func (c *Config) applyDefaults() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.MaxUploadSize <= 0 {
		c.MaxUploadSize = ByteSize(constants.DefaultMaxUploadSizeBytes)
	}
	if c.Storage.Path == "" {
		c.Storage.Path = constants.DefaultStoragePath
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}

// sizeUnits is ordered so two-letter suffixes match before their one-letter
// forms.
var sizeUnits = []struct {
	suffix string
	factor int64
}{
	{"GB", 1 << 30}, {"G", 1 << 30},
	{"MB", 1 << 20}, {"M", 1 << 20},
	{"KB", 1 << 10}, {"K", 1 << 10},
	{"B", 1},
}

// ParseSize converts "256K", "10MB" or "4096" into bytes. Units are binary
// and case-insensitive; an empty value is the default upload size.
func ParseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	factor := int64(1)
	for _, unit := range sizeUnits {
		if strings.HasSuffix(s, unit.suffix) {
			s, factor = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix)), unit.factor
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if n < 0 || n > math.MaxInt64/factor {
		return 0, fmt.Errorf("size %q is out of range", value)
	}
	return n * factor, nil
}
