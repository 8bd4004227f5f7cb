package config

import (
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/casual-mw/casual/errors"
)

var (
	globalConfig *Config
	viperOnce    sync.Once
	viperInst    *viper.Viper
)

// Load reads the casual domain configuration using Viper: flags (if bound
// by the caller), CASUAL_* environment variables, ./casual.toml,
// ~/.casual/casual.toml, then built-in defaults, in that precedence order.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}
	v := sharedViper()
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	globalConfig = &cfg
	return globalConfig, nil
}

// GetViper returns the shared Viper instance for advanced access (e.g. a
// CLI subcommand that wants to set/get a single dotted key).
func GetViper() *viper.Viper {
	return sharedViper()
}

// LoadFromFile loads configuration from an explicit path, bypassing the
// search path. Used by tests and by `casual --config <path>`.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	SetDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "config: unmarshal %s", path)
	}
	return &cfg, nil
}

// Reset clears the cached configuration; useful in tests that load several
// configurations in one process.
func Reset() {
	globalConfig = nil
	viperOnce = sync.Once{}
	viperInst = nil
}

func sharedViper() *viper.Viper {
	viperOnce.Do(func() {
		v := viper.New()
		v.SetEnvPrefix("CASUAL")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		SetDefaults(v)

		v.SetConfigName("casual")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.casual")
		v.AddConfigPath("/etc/casual")

		_ = v.ReadInConfig() // absent config file is not an error; defaults apply

		viperInst = v
	})
	return viperInst
}
