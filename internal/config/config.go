// Package config loads picpack settings from an optional YAML file and
// PICPACK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/AnyUserName/picpack/internal/logging"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// PICPACK_SERVER_ADDR for server.addr.
const EnvPrefix = "PICPACK"

// Config is the root configuration.
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Server   ServerConfig   `mapstructure:"server"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      logging.Config `mapstructure:"log"`
}

// PipelineConfig tunes the image pipeline.
type PipelineConfig struct {
	JPEGQuality     int `mapstructure:"jpeg_quality" default:"90" validate:"min=1,max=100"`
	ShrinkWidth     int `mapstructure:"shrink_width" default:"100" validate:"min=1,max=100"`
	ShrinkHeight    int `mapstructure:"shrink_height" default:"100" validate:"min=1,max=100"`
	MaxInputPixels  int `mapstructure:"max_input_pixels" default:"40000000" validate:"min=1"`
	MaxOutputPixels int `mapstructure:"max_output_pixels" default:"40000000" validate:"min=1"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" default:":8080" validate:"required"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" default:"26214400" validate:"min=1"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"10s"`
	CORSOrigins     []string      `mapstructure:"cors_origins" default:"[\"*\"]"`
	Mode            string        `mapstructure:"mode" default:"release" validate:"oneof=debug release test"`
}

// CacheConfig selects and tunes the placeholder cache.
type CacheConfig struct {
	Backend         string        `mapstructure:"backend" default:"memory" validate:"oneof=memory redis none"`
	TTL             time.Duration `mapstructure:"ttl" default:"1h"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" default:"10m"`
	RedisAddr       string        `mapstructure:"redis_addr" default:"localhost:6379" validate:"required_if=Backend redis"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db" validate:"min=0"`
	KeyPrefix       string        `mapstructure:"key_prefix" default:"picpack:placeholder:"`
}

// Default returns a Config populated from struct defaults only.
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("config: invalid default tags: %v", err))
	}
	return cfg
}

// Load reads configuration.  With an empty path it looks for an optional
// picpack.yaml in the working directory; an explicit path must exist.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys(reflect.TypeOf(Config{}), "") {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("picpack")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// keys lists the dotted mapstructure keys of every leaf field of t.
func keys(t reflect.Type, prefix string) []string {
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("mapstructure")
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Duration(0)) {
			out = append(out, keys(f.Type, name)...)
			continue
		}
		out = append(out, name)
	}
	return out
}
