package config

import (
	"fmt"
	"strings"

	"github.com/Aman-s12345/express-openapi-generator/internal/analyzer"
	"github.com/spf13/viper"
)

const envPrefix = "EXPRESS_OPENAPI"

type Config struct {
	Title       string       `mapstructure:"title"`
	Version     string       `mapstructure:"version"`
	Description string       `mapstructure:"description"`
	OutputDir   string       `mapstructure:"output_dir"`
	LogLevel    string       `mapstructure:"log_level"`
	IntegerIDs  bool         `mapstructure:"integer_ids"`
	Conventions []Convention `mapstructure:"conventions"`
}

type Convention struct {
	Model  string  `mapstructure:"model"`
	Fields []Field `mapstructure:"fields"`
}

type Field struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("title", "Express API")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("description", "OpenAPI specification generated from Express route handlers")
	v.SetDefault("output_dir", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("integer_ids", false)
}

// Load reads configuration from defaults, the optional file at path and
// EXPRESS_OPENAPI_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for _, conv := range c.Conventions {
		if conv.Model == "" {
			return fmt.Errorf("convention without model")
		}
		for _, f := range conv.Fields {
			switch f.Type {
			case analyzer.TypeString, analyzer.TypeInteger, analyzer.TypeNumber, analyzer.TypeBoolean:
			default:
				return fmt.Errorf("convention %s: field %s has unsupported type %q", conv.Model, f.Name, f.Type)
			}
		}
	}
	return nil
}

// DomainConventions converts the configured conventions for the analyzer.
func (c *Config) DomainConventions() []analyzer.DomainConvention {
	var out []analyzer.DomainConvention
	for _, conv := range c.Conventions {
		dc := analyzer.DomainConvention{Model: conv.Model}
		for _, f := range conv.Fields {
			dc.Fields = append(dc.Fields, analyzer.ConventionField{Name: f.Name, Type: f.Type})
		}
		out = append(out, dc)
	}
	return out
}
