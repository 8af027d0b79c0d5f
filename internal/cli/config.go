package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/boxlayout/pkg/api"
	"github.com/matzehuels/boxlayout/pkg/cache"
	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/pipeline"
)

// Environment variables that override the config file.
const (
	envRedisAddr = "BOXLAYOUT_REDIS_ADDR"
	envMongoURI  = "BOXLAYOUT_MONGO_URI"
)

// Config is the optional config file:
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":9000"
//
//	[render]
//	style = "filled"
//	labels = true
type Config struct {
	Cache  cache.Config `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// RenderConfig holds defaults for the render command's flags.
type RenderConfig struct {
	Style   string   `toml:"style"`
	Labels  bool     `toml:"labels"`
	Formats []string `toml:"formats"`
}

// DefaultConfig is the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache:  cache.Config{Backend: cache.BackendFile},
		Server: ServerConfig{Addr: api.DefaultAddr},
		Render: RenderConfig{Style: pipeline.DefaultStyle, Formats: []string{pipeline.FormatSVG}},
	}
}

// configPath returns $XDG_CONFIG_HOME/boxlayout/config.toml, falling back
// to ~/.config.
func configPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName, "config.toml")
}

// LoadConfig reads the config file at path over the defaults. An empty
// path means the default location, which may be absent; an explicit path
// must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = configPath()
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return Config{}, errors.New(errors.ErrCodeInvalidInput, "%s: unknown key %q", path, undecoded[0].String())
			}
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config file %s", path)
		}
	}

	if v := os.Getenv(envRedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
		if cfg.Cache.Backend == cache.BackendFile {
			cfg.Cache.Backend = cache.BackendRedis
		}
	}
	if v := os.Getenv(envMongoURI); v != "" {
		cfg.Cache.MongoURI = v
		if cfg.Cache.Backend == cache.BackendFile {
			cfg.Cache.Backend = cache.BackendMongo
		}
	}
	return cfg, nil
}
