// Package config handles configuration management for brandsync.
//
// Configuration is layered with koanf: embedded defaults, then the user
// config under the XDG config dir, then a config file in the base directory,
// then BRANDSYNC_* environment variables (optionally seeded from a .env file
// in the base directory).
package config
