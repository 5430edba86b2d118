package config

import (
	"time"

	"github.com/arthur-debert/brandsync/pkg/types"
)

// Roots holds the naming contract of the root directories
type Roots struct {
	Prefix          string   `koanf:"prefix"`
	Core            string   `koanf:"core"`
	InterlayerInfix string   `koanf:"interlayer_infix"`
	BrandPrefix     string   `koanf:"brand_prefix"`
	BrandSuffix     string   `koanf:"brand_suffix"`
	Ignore          []string `koanf:"ignore"`
}

// Cache holds state cache settings
type Cache struct {
	Size int `koanf:"size"`
}

// Watch holds change notification settings
type Watch struct {
	Enabled   bool          `koanf:"enabled"`
	Debounce  time.Duration `koanf:"debounce"`
	QueueSize int           `koanf:"queue_size"`
}

// Copy holds copy command settings
type Copy struct {
	Open   bool   `koanf:"open"`
	Opener string `koanf:"opener"`
}

// Config is the main configuration structure
type Config struct {
	Roots Roots `koanf:"roots"`
	Cache Cache `koanf:"cache"`
	Watch Watch `koanf:"watch"`
	Copy  Copy  `koanf:"copy"`
}

// Default returns the embedded defaults
func Default() *Config {
	cfg, err := load(LoadOptions{}, false)
	if err != nil {
		// The embedded file is part of the binary; this only guards against a broken build
		layout := types.DefaultLayout()
		return &Config{
			Roots: Roots{
				Prefix:          layout.Prefix,
				Core:            layout.CoreName,
				InterlayerInfix: layout.InterlayerInfix,
				BrandPrefix:     layout.BrandPrefix,
				BrandSuffix:     layout.BrandSuffix,
				Ignore:          layout.Ignore,
			},
			Cache: Cache{Size: 4096},
			Watch: Watch{Enabled: true, Debounce: 200 * time.Millisecond, QueueSize: 64},
		}
	}
	return cfg
}

// Layout converts the roots section to the classification layout
func (c *Config) Layout() types.Layout {
	ignore := make([]string, len(c.Roots.Ignore))
	copy(ignore, c.Roots.Ignore)
	return types.Layout{
		Prefix:          c.Roots.Prefix,
		CoreName:        c.Roots.Core,
		InterlayerInfix: c.Roots.InterlayerInfix,
		BrandPrefix:     c.Roots.BrandPrefix,
		BrandSuffix:     c.Roots.BrandSuffix,
		Ignore:          ignore,
	}
}
