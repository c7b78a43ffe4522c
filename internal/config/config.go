package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/garm/internal/domain"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "GARM"
	ConfigDir  = ".garm"
	configName = "config"
	configType = "toml"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Accounts AccountsConfig `mapstructure:"accounts"`
	Keys     KeysConfig     `mapstructure:"keys"`
	Actor    ActorConfig    `mapstructure:"actor"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Listen                string        `mapstructure:"listen"`
	PublicURL             string        `mapstructure:"public_url"`
	TrustForwardedHeaders bool          `mapstructure:"trust_forwarded_headers"`
	ReadHeaderTimeout     time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout       time.Duration `mapstructure:"shutdown_timeout"`
}

type AccountsConfig struct {
	Path string `mapstructure:"path"`
}

type KeysConfig struct {
	Path string `mapstructure:"path"`
}

type ActorConfig struct {
	Summary      string `mapstructure:"summary"`
	ProfileLabel string `mapstructure:"profile_label"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ActorOptions returns the operator settings applied to every actor document.
func (c Config) ActorOptions() domain.ActorOptions {
	return domain.ActorOptions{
		Summary:      c.Actor.Summary,
		ProfileLabel: c.Actor.ProfileLabel,
	}
}

// New returns a viper instance with defaults rooted at homeDir, GARM_*
// environment overrides and the config file search path. configFile, when
// non-empty, replaces the search for ~/.garm/config.toml.
func New(homeDir, configFile string) *viper.Viper {
	v := viper.New()

	base := filepath.Join(homeDir, ConfigDir)
	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.trust_forwarded_headers", false)
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("accounts.path", filepath.Join(base, "accounts.toml"))
	v.SetDefault("keys.path", filepath.Join(base, "keys"))
	v.SetDefault("actor.summary", "")
	v.SetDefault("actor.profile_label", domain.DefaultProfileLabel)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(base)
	}

	return v
}

// Load reads the config file if there is one and decodes the result. A
// missing file leaves the defaults in place; a malformed one is an error.
func Load(v *viper.Viper, homeDir string) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: read config: %w", domain.ErrConfiguration, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode config: %w", domain.ErrConfiguration, err)
	}

	cfg.Accounts.Path = expandHome(cfg.Accounts.Path, homeDir)
	cfg.Keys.Path = expandHome(cfg.Keys.Path, homeDir)
	v.Set("accounts.path", cfg.Accounts.Path)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Listen) == "" {
		errs = append(errs, errors.New("server.listen is empty"))
	}
	if c.Server.PublicURL != "" {
		if _, err := domain.NewURLBuilder(c.Server.PublicURL); err != nil {
			errs = append(errs, fmt.Errorf("server.public_url: %w", err))
		}
	}
	if c.Server.ReadHeaderTimeout < 0 {
		errs = append(errs, errors.New("server.read_header_timeout is negative"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout is negative"))
	}
	if strings.TrimSpace(c.Accounts.Path) == "" {
		errs = append(errs, errors.New("accounts.path is empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, errors.Join(errs...))
	}

	return nil
}

func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(homeDir, rest)
	}
	return path
}
