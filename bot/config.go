package bot

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Configuration keys shared by all bots.
const (
	CfgTgToken       = "tg_token"
	CfgRetryAttempts = "retry_attempts"
	CfgRetryDelay    = "retry_delay"
	CfgDebug         = "debug"
)

// EnvPrefix is the prefix of environment variables overriding the file.
// BOTFARM_REMINDERBOT__TG_TOKEN sets reminderbot.tg_token.
const EnvPrefix = "BOTFARM_"

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = 1 * time.Second
)

// Config keeps bot configuration
type Config struct {
	TgToken       string        `koanf:"tg_token"`
	RetryAttempts int           `koanf:"retry_attempts"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
	Debug         bool          `koanf:"debug"`
}

// Configs is the configuration of the whole farm, one section per bot.
type Configs struct {
	k *koanf.Koanf
}

// LoadConfig reads the YAML file and overlays it with BOTFARM_* environment
// variables.
func LoadConfig(path string) (*Configs, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "failed loading configuration from %q", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "failed loading configuration from environment")
	}

	return &Configs{k: k}, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// For returns configuration of the bot described by the record. Section
// names are case-insensitive.
func (c *Configs) For(rec Record) (*Config, error) {
	section := strings.ToLower(rec.Name)
	if !c.k.Exists(section) {
		return nil, errors.Errorf("couldn't find configuration for bot %q", rec.Name)
	}

	var missingFields []string
	for _, field := range rec.RequiredConfigFields {
		if !c.k.Exists(section + "." + field) {
			missingFields = append(missingFields, field)
		}
	}
	if len(missingFields) > 0 {
		return nil, errors.Errorf("%v's configuration is missing field(s): %s", rec.Name, strings.Join(missingFields, ", "))
	}

	cfg := Config{
		RetryAttempts: defaultRetryAttempts,
		RetryDelay:    defaultRetryDelay,
	}
	if err := c.k.Unmarshal(section, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed parsing configuration for bot %q", rec.Name)
	}

	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}

	return &cfg, nil
}
