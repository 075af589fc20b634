package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nested keys: KEELSQL_TARGET__DATABASE sets target.database.
const EnvPrefix = "KEELSQL_"

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"target-type": "target.type",
	"database":    "target.database",
	"addr":        "server.addr",
	"verbose":     "verbose",
	"output":      "output",
}

// Loaded is a configuration together with the file it came from.
type Loaded struct {
	*Config
	File string // empty when no file was found
}

// Load reads configuration from defaults, the config file, environment
// variables and flags. Precedence (highest to lowest): flags > env vars >
// config file > defaults. An empty cfgFile looks for keelsql.yaml or
// keelsql.yml in the working directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Loaded, error) {
	k := koanf.New(".")

	def := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"target.type":     def.Target.Type,
		"target.database": def.Target.Database,
		"server.addr":     def.Server.Addr,
		"verbose":         def.Verbose,
		"output":          def.Output,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.BaseDir = "."
	if used != "" {
		cfg.BaseDir = filepath.Dir(used)
	}

	ApplyTargetDefaults(&cfg.Target)
	expandTargetEnvVars(&cfg.Target)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Loaded{Config: &cfg, File: used}, nil
}

// findConfigFile returns the config file to read. An explicit path must
// exist; otherwise the default names are tried in the working directory.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, name := range []string{DefaultConfigFile, "keelsql.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config file %s: %w", name, err)
		}
	}
	return "", nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
}
