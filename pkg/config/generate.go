package config

import (
	"github.com/arthur-debert/brandsync/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config with the on-disk TOML shape
type fileConfig struct {
	Roots struct {
		Prefix          string   `toml:"prefix"`
		Core            string   `toml:"core"`
		InterlayerInfix string   `toml:"interlayer_infix"`
		BrandPrefix     string   `toml:"brand_prefix"`
		BrandSuffix     string   `toml:"brand_suffix"`
		Ignore          []string `toml:"ignore"`
	} `toml:"roots"`
	Cache struct {
		Size int `toml:"size"`
	} `toml:"cache"`
	Watch struct {
		Enabled   bool   `toml:"enabled"`
		Debounce  string `toml:"debounce"`
		QueueSize int    `toml:"queue_size"`
	} `toml:"watch"`
	Copy struct {
		Open   bool   `toml:"open"`
		Opener string `toml:"opener"`
	} `toml:"copy"`
}

// Generate renders the configuration as TOML that Load accepts back
func Generate(cfg *Config) (string, error) {
	var out fileConfig
	out.Roots.Prefix = cfg.Roots.Prefix
	out.Roots.Core = cfg.Roots.Core
	out.Roots.InterlayerInfix = cfg.Roots.InterlayerInfix
	out.Roots.BrandPrefix = cfg.Roots.BrandPrefix
	out.Roots.BrandSuffix = cfg.Roots.BrandSuffix
	out.Roots.Ignore = cfg.Roots.Ignore
	out.Cache.Size = cfg.Cache.Size
	out.Watch.Enabled = cfg.Watch.Enabled
	out.Watch.Debounce = cfg.Watch.Debounce.String()
	out.Watch.QueueSize = cfg.Watch.QueueSize
	out.Copy.Open = cfg.Copy.Open
	out.Copy.Opener = cfg.Copy.Opener

	data, err := toml.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(data), nil
}
