package cliutil

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/viper"

	"github.com/jsinterop/reexport/internal/types"
)

// Environment variable prefix for reexport configuration.
const envPrefix = "REEXPORT"

// Config is the CLI configuration from reexport.yaml and REEXPORT_*
// environment variables. Flags override it.
type Config struct {
	Paths              []string          `mapstructure:"paths"`
	Strictness         string            `mapstructure:"strictness"`
	FailAt             string            `mapstructure:"fail-at"`
	Ignore             []string          `mapstructure:"ignore"`
	Overrides          map[string]string `mapstructure:"overrides"`
	NamespaceAccessors bool              `mapstructure:"namespace-accessors"`
	StrictDuplicates   bool              `mapstructure:"strict-duplicates"`
	Extensions         []string          `mapstructure:"extensions"`
}

// Loader reads the CLI configuration.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a configuration loader bound to REEXPORT_* variables.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("paths", "REEXPORT_PATHS")
	_ = v.BindEnv("strictness", "REEXPORT_STRICTNESS")
	_ = v.BindEnv("fail-at", "REEXPORT_FAIL_AT")
	_ = v.BindEnv("namespace-accessors", "REEXPORT_NAMESPACE_ACCESSORS")
	_ = v.BindEnv("strict-duplicates", "REEXPORT_STRICT_DUPLICATES")

	v.SetDefault("strictness", types.StrictnessNormal.String())
	v.SetDefault("fail-at", types.SeveritySevere.String())

	return &Loader{v: v}
}

// Load reads configFile, or reexport.yaml in the working directory when
// configFile is empty. A missing default file is not an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName("reexport")
		l.v.AddConfigPath(".")
	}
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the file Load read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// DiagnosticConfig converts the configured strictness, threshold,
// overrides and ignore patterns.
func (c *Config) DiagnosticConfig() (types.DiagnosticConfig, error) {
	var dc types.DiagnosticConfig
	switch strings.ToLower(c.Strictness) {
	case "", "normal":
		dc = types.DefaultConfig()
	case "strict":
		dc = types.StrictConfig()
	case "permissive":
		dc = types.PermissiveConfig()
	case "silent":
		dc = types.DefaultConfig()
		dc.Level = types.StrictnessSilent
	default:
		return dc, fmt.Errorf("unknown strictness %q (want strict, normal, permissive, silent)", c.Strictness)
	}

	if c.FailAt != "" {
		sev, ok := types.ParseSeverity(c.FailAt)
		if !ok {
			return dc, fmt.Errorf("unknown fail-at severity %q", c.FailAt)
		}
		dc.FailAt = sev
	}

	dc.Ignore = append(dc.Ignore, c.Ignore...)

	if len(c.Overrides) > 0 {
		dc.Overrides = maps.Clone(dc.Overrides)
		if dc.Overrides == nil {
			dc.Overrides = make(map[string]types.Severity, len(c.Overrides))
		}
		for code, name := range c.Overrides {
			sev, ok := types.ParseSeverity(name)
			if !ok {
				return dc, fmt.Errorf("override %s: unknown severity %q", code, name)
			}
			dc.Overrides[code] = sev
		}
	}
	return dc, nil
}
