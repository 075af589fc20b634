package config

// Default configuration values.
const (
	DefaultConfigFile = "keelsql.yaml"
	DefaultTargetType = "sqlite"
	DefaultDatabase   = "keel.db"
	DefaultAddr       = ":8080"
	DefaultOutput     = "table"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Target: TargetConfig{
			Type:     DefaultTargetType,
			Database: DefaultDatabase,
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Output: DefaultOutput,
	}
}

// ApplyTargetDefaults applies default values based on the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t.Type == "postgres" {
		if t.Host == "" {
			t.Host = "localhost"
		}
		if t.Port == 0 {
			t.Port = 5432
		}
	}
}
