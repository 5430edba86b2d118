package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "BRANDSYNC_"

	// UserConfigFile is the file name looked up in the user config dir
	UserConfigFile = "config.toml"
)

// RootConfigFiles are looked up in the base directory, first match wins
var RootConfigFiles = []string{".brandsync.toml", "brandsync.toml"}

// LoadOptions selects the optional configuration layers
type LoadOptions struct {
	// BaseDir is the directory holding the roots. Its config file and .env are loaded.
	BaseDir string

	// ConfigDir is the user config directory
	ConfigDir string
}

// Load builds the effective configuration: embedded defaults, user config,
// base directory config, then BRANDSYNC_* environment variables. A .env file
// in the base directory seeds environment variables that are not already set.
func Load(opts LoadOptions) (*Config, error) {
	if opts.BaseDir != "" {
		dotEnv := filepath.Join(opts.BaseDir, ".env")
		if _, err := os.Stat(dotEnv); err == nil {
			if err := godotenv.Load(dotEnv); err != nil {
				return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load .env").
					WithDetail("path", dotEnv)
			}
		}
	}
	return load(opts, true)
}

func load(opts LoadOptions, withEnv bool) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config
	if opts.ConfigDir != "" {
		if err := loadFileIfExists(k, filepath.Join(opts.ConfigDir, UserConfigFile)); err != nil {
			return nil, err
		}
	}

	// 3. Base directory config
	if opts.BaseDir != "" {
		for _, name := range RootConfigFiles {
			path := filepath.Join(opts.BaseDir, name)
			if _, err := os.Stat(path); err == nil {
				if err := loadFileIfExists(k, path); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	// 4. Environment. Only the first underscore separates section from key.
	if withEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
		}), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, errors.ErrConfigLoad, "cannot access config file").
			WithDetail("path", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "failed to parse config file").
			WithDetail("path", path)
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Roots.Prefix == "" {
		return errors.New(errors.ErrConfigParse, "roots.prefix must not be empty")
	}
	if cfg.Roots.Core == "" {
		return errors.New(errors.ErrConfigParse, "roots.core must not be empty")
	}
	if cfg.Cache.Size <= 0 {
		return errors.Newf(errors.ErrConfigParse, "cache.size must be positive, got %d", cfg.Cache.Size)
	}
	if cfg.Watch.QueueSize <= 0 {
		return errors.Newf(errors.ErrConfigParse, "watch.queue_size must be positive, got %d", cfg.Watch.QueueSize)
	}
	if cfg.Watch.Debounce < 0 {
		return errors.New(errors.ErrConfigParse, "watch.debounce must not be negative")
	}
	return nil
}
