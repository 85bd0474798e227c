package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const DefaultDotenvFile = ".env"

// Config is the service configuration. Every field is read from the
// environment variable named after its key in upper case, falling back to an
// optional dotenv file and then to the defaults below.
type Config struct {
	RootRedirect    string        `mapstructure:"root_redir" validate:"omitempty,url"`
	APIURL          string        `mapstructure:"api_url" validate:"required,url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	TrustProxy      bool          `mapstructure:"trust_proxy"`
	APIToken        string        `mapstructure:"modrinth_api_token"`
	UserAgent       string        `mapstructure:"user_agent" validate:"required"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout" validate:"gt=0"`
	LatestCacheTTL  time.Duration `mapstructure:"latest_cache_ttl" validate:"gt=0"`
	VersionCacheTTL time.Duration `mapstructure:"version_cache_ttl" validate:"gt=0"`
	SerializeLoads  bool          `mapstructure:"serialize_loads"`

	SlowDown SlowDownConfig `mapstructure:",squash"`
	Log      LogConfig      `mapstructure:",squash"`
}

// SlowDownConfig controls the per-client request delay.
type SlowDownConfig struct {
	Window     time.Duration `mapstructure:"slowdown_window" validate:"gt=0"`
	DelayAfter int           `mapstructure:"slowdown_delay_after" validate:"min=0"`
	DelayStep  time.Duration `mapstructure:"slowdown_delay_step" validate:"min=0"`
	// zero means unbounded
	MaxDelay time.Duration `mapstructure:"slowdown_max_delay" validate:"min=0"`
}

type LogConfig struct {
	Level      string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"log_file"`
	MaxSize    int    `mapstructure:"log_max_size" validate:"min=1"`
	MaxBackups int    `mapstructure:"log_max_backups" validate:"min=0"`
	Compress   bool   `mapstructure:"log_compress"`
}

var validate = validator.New()

// Load reads the configuration from the environment and the dotenv file at
// path. A missing dotenv file is not an error; values already present in the
// environment take precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read dotenv file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat dotenv file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the decoded values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root_redir", "https://github.com/booky10/modrinth-downloader")
	v.SetDefault("api_url", "https://api.modrinth.com")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("trust_proxy", false)
	v.SetDefault("modrinth_api_token", "")
	v.SetDefault("user_agent", "Modrinth Downloader / https://github.com/booky10/modrinth-downloader / contact@example.org")
	v.SetDefault("upstream_timeout", 30*time.Second)
	v.SetDefault("latest_cache_ttl", 5*time.Minute)
	v.SetDefault("version_cache_ttl", time.Hour)
	v.SetDefault("serialize_loads", false)

	v.SetDefault("slowdown_window", 30*time.Second)
	v.SetDefault("slowdown_delay_after", 5)
	v.SetDefault("slowdown_delay_step", 200*time.Millisecond)
	v.SetDefault("slowdown_max_delay", time.Duration(0))

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size", 100)
	v.SetDefault("log_max_backups", 10)
	v.SetDefault("log_compress", true)
}

// durationDecodeHook accepts Go duration strings ("5m") and plain integers,
// which are read as milliseconds.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(time.Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return time.Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return parsed, nil
			}
			if millis, err := strconv.ParseInt(v, 10, 64); err == nil {
				return time.Duration(millis) * time.Millisecond, nil
			}
			return nil, fmt.Errorf("invalid duration: %q", v)
		case int:
			return time.Duration(v) * time.Millisecond, nil
		case int64:
			return time.Duration(v) * time.Millisecond, nil
		case float64:
			return time.Duration(v * float64(time.Millisecond)), nil
		case time.Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported duration type: %T", v)
		}
	}
}
