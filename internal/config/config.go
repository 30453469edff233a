package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "NOSTR_WIDGETS"

// Config holds the service configuration.
type Config struct {
	Port     string
	LogLevel string `mapstructure:"log_level"`
	RedisURL string `mapstructure:"redis_url"`
	// Secret seeds the CSRF and session keys. Empty means a random per-process secret.
	Secret string
	// SignerKey is the hex private key used to sign metadata updates.
	SignerKey string `mapstructure:"signer_key"`

	Relays  RelaysConfig
	Premium PremiumConfig
	Fetch   FetchConfig
}

// RelaysConfig lists relays by purpose
type RelaysConfig struct {
	Default []string
	Publish []string
}

// PremiumConfig describes the premium service and its members, keyed by hex pubkey
type PremiumConfig struct {
	Domain  string
	Members map[string]types.Membership
}

// FetchConfig bounds relay work
type FetchConfig struct {
	RelayTimeout  time.Duration `mapstructure:"relay_timeout"`
	PeopleTimeout time.Duration `mapstructure:"people_timeout"`
	BatchWindow   time.Duration `mapstructure:"batch_window"`
	PopoverTTL    time.Duration `mapstructure:"popover_ttl"`
}

// Load reads defaults, an optional YAML file and env overrides (prefix NOSTR_WIDGETS_).
// path overrides NOSTR_WIDGETS_CONFIG; without either, config/widgets.yaml is tried.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("port", "3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("redis_url", "")
	v.SetDefault("secret", "")
	v.SetDefault("signer_key", "")
	v.SetDefault("relays.default", util.DefaultRelays)
	v.SetDefault("relays.publish", []string{})
	v.SetDefault("premium.domain", "primal.net")
	v.SetDefault("premium.members", map[string]any{})
	v.SetDefault("fetch.relay_timeout", "1500ms")
	v.SetDefault("fetch.people_timeout", "2500ms")
	v.SetDefault("fetch.batch_window", "50ms")
	v.SetDefault("fetch.popover_ttl", "10m")

	v.SetConfigType("yaml")
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPrefix + "_CONFIG")
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("widgets")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		slog.Info("config file loaded", "path", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

func (c *Config) normalize() {
	c.Relays.Default = splitList(c.Relays.Default)
	c.Relays.Publish = splitList(c.Relays.Publish)
	if len(c.Relays.Default) == 0 {
		c.Relays.Default = util.DefaultRelays
	}
	if len(c.Relays.Publish) == 0 {
		c.Relays.Publish = c.Relays.Default
	}

	members := make(map[string]types.Membership, len(c.Premium.Members))
	for pk, m := range c.Premium.Members {
		members[strings.ToLower(pk)] = m
	}
	c.Premium.Members = members
}

// splitList accepts both YAML lists and comma separated env values
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return util.DedupeStrings(out)
}

// Membership returns the premium membership configured for pubkey
func (c Config) Membership(pubkey string) (types.Membership, bool) {
	m, ok := c.Premium.Members[strings.ToLower(pubkey)]
	return m, ok
}

// SlogLevel maps LogLevel onto slog levels, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
