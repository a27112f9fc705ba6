package supplegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"

	defaults "github.com/Paranoid-AF/supplegen/default"
)

// Config represents the generator configuration.
type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Run        RunConfig        `mapstructure:"run"`
}

// GenerationConfig holds settings for the inference endpoint.
type GenerationConfig struct {
	BaseURL     string          `mapstructure:"base_url" validate:"required,url"`
	APIKey      string          `mapstructure:"api_key"`
	APIType     string          `mapstructure:"api_type" validate:"oneof=chat_completions responses"`
	Model       string          `mapstructure:"model" validate:"required"`
	Temperature float64         `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration   `mapstructure:"timeout" validate:"gte=0"`
	MaxTokens   MaxTokensConfig `mapstructure:"max_tokens"`
}

// MaxTokensConfig caps the output length per entity kind. Zero means no cap.
type MaxTokensConfig struct {
	Users        int `mapstructure:"users" validate:"gte=0"`
	Products     int `mapstructure:"products" validate:"gte=0"`
	Transactions int `mapstructure:"transactions" validate:"gte=0"`
}

// RunConfig holds the target counts and output settings of a generation run.
type RunConfig struct {
	BatchSize    int    `mapstructure:"batch_size" validate:"gte=1"`
	Users        int    `mapstructure:"users" validate:"gte=0"`
	Products     int    `mapstructure:"products" validate:"gte=0"`
	Transactions int    `mapstructure:"transactions" validate:"gte=0"`
	OutputDir    string `mapstructure:"output_dir" validate:"required"`
	PromptDir    string `mapstructure:"prompt_dir"`
	// Seed makes candidate sampling reproducible. Zero picks a random seed.
	Seed          uint64 `mapstructure:"seed"`
	TrackCapacity int    `mapstructure:"track_capacity" validate:"gte=0"`
}

// MaxTokensFor returns the output token cap for kind.
func (c GenerationConfig) MaxTokensFor(kind Kind) int {
	switch kind {
	case KindUsers:
		return c.MaxTokens.Users
	case KindProducts:
		return c.MaxTokens.Products
	case KindTransactions:
		return c.MaxTokens.Transactions
	}
	return 0
}

// Target returns the requested record count for kind.
func (c RunConfig) Target(kind Kind) int {
	switch kind {
	case KindUsers:
		return c.Users
	case KindProducts:
		return c.Products
	case KindTransactions:
		return c.Transactions
	}
	return 0
}

// envPrefix prefixes environment overrides, e.g. SUPPLEGEN_RUN_BATCH_SIZE.
const envPrefix = "SUPPLEGEN"

// ConfigDir returns the config directory path.
// Resolution order: $SUPPLEGEN_CONFIG_DIR > $XDG_CONFIG_HOME/supplegen > ~/.config/supplegen
func ConfigDir() string {
	if dir := os.Getenv("SUPPLEGEN_CONFIG_DIR"); dir != "" {
		return dir
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "supplegen")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", "supplegen-config")
	}
	return filepath.Join(home, ".config", "supplegen")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// PromptDir returns the directory searched for prompt template overrides.
func PromptDir(cfg *Config) string {
	if cfg != nil && cfg.Run.PromptDir != "" {
		return cfg.Run.PromptDir
	}
	return filepath.Join(ConfigDir(), "prompts")
}

// newViper returns a viper instance seeded with the embedded defaults and
// bound to SUPPLEGEN_* environment variables.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(defaults.DefaultConfigTOML)); err != nil {
		return nil, fmt.Errorf("invalid embedded default_config.toml: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// DefaultConfig returns the embedded default configuration with environment
// references expanded. It is not validated.
func DefaultConfig() *Config {
	v, err := newViper()
	if err != nil {
		panic("supplegen: " + err.Error())
	}
	cfg, err := decode(v)
	if err != nil {
		panic("supplegen: " + err.Error())
	}
	return cfg
}

// LoadConfig loads the config file if present, layered over the defaults
// and under environment overrides, and validates the result.
func LoadConfig() (*Config, error) {
	return LoadConfigFile(ConfigPath())
}

// LoadConfigFile is LoadConfig with an explicit file path. A missing file is
// not an error.
func LoadConfigFile(path string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := expandEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandEnv applies shell parameter expansion (${VAR}, ${VAR:-default}) to
// the string settings that commonly reference the environment.
func expandEnv(cfg *Config) error {
	fields := []*string{
		&cfg.Generation.BaseURL,
		&cfg.Generation.APIKey,
		&cfg.Generation.Model,
		&cfg.Run.OutputDir,
		&cfg.Run.PromptDir,
	}
	for _, f := range fields {
		if !strings.Contains(*f, "$") {
			continue
		}
		expanded, err := shell.Expand(*f, nil)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *f, err)
		}
		*f = expanded
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for values the generator cannot run with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validate.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("invalid config: %s: failed %q check", errs[0].Namespace(), errs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidateConfig checks configuration for potential issues and returns warnings.
func ValidateConfig(cfg *Config) []string {
	var warnings []string
	if cfg == nil {
		return warnings
	}
	if cfg.Generation.Temperature == 0 {
		warnings = append(warnings, "temperature is 0; generated batches will be near-identical")
	}
	if cfg.Run.Transactions > 0 && (cfg.Run.Users == 0 || cfg.Run.Products == 0) {
		warnings = append(warnings, "transactions requested but users or products is 0; no transactions will be generated")
	}
	for _, kind := range Kinds {
		if cfg.Run.Target(kind) > 0 && cfg.Generation.MaxTokensFor(kind) == 0 {
			warnings = append(warnings, fmt.Sprintf("max_tokens.%s is 0; the endpoint default output limit applies", kind))
		}
	}
	return warnings
}
