// Package config provides Viper-based configuration loading for the bestiary
// tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig names the directories content is loaded from. An empty
// directory disables that content source.
type ContentConfig struct {
	// NPCDir holds NPC template YAML files.
	NPCDir string `mapstructure:"npc_dir"`
	// ScriptDir holds Lua rule scripts.
	ScriptDir string `mapstructure:"script_dir"`
	// GlossaryDir holds attack effect glossary YAML files.
	GlossaryDir string `mapstructure:"glossary_dir"`
	// ItemDir holds the item definitions loot tables refer to.
	ItemDir string `mapstructure:"item_dir"`
	// ConditionDir holds condition definitions.
	ConditionDir string `mapstructure:"condition_dir"`
	// LocaleDir holds locale catalogs that extend the embedded ones.
	LocaleDir string `mapstructure:"locale_dir"`
}

// RulesConfig holds rule tuning knobs.
type RulesConfig struct {
	// MAPSecond and MAPThird are the multiple attack penalties of the second
	// and third attack with a non-agile weapon.
	MAPSecond int `mapstructure:"map_second"`
	MAPThird  int `mapstructure:"map_third"`
	// MAPAgileSecond and MAPAgileThird are the same penalties for agile weapons.
	MAPAgileSecond int `mapstructure:"map_agile_second"`
	MAPAgileThird  int `mapstructure:"map_agile_third"`
	// LuaInstructionLimit bounds each rule script call.
	LuaInstructionLimit int `mapstructure:"lua_instruction_limit"`
	// LootableNPCs lets players loot dead NPCs.
	LootableNPCs bool `mapstructure:"lootable_npcs"`
}

// LocaleConfig holds localization settings.
type LocaleConfig struct {
	// Default is the BCP 47 tag used when none is requested.
	Default string `mapstructure:"default"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Content  ContentConfig  `mapstructure:"content"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Locale   LocaleConfig   `mapstructure:"locale"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRules(c.Rules); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Locale.Default == "" {
		errs = append(errs, "locale.default must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRules(r RulesConfig) error {
	var errs []string
	if r.MAPSecond >= 0 || r.MAPThird >= r.MAPSecond {
		errs = append(errs, fmt.Sprintf("rules.map_second and rules.map_third must satisfy 0 > second > third, got %d, %d", r.MAPSecond, r.MAPThird))
	}
	if r.MAPAgileSecond >= 0 || r.MAPAgileThird >= r.MAPAgileSecond {
		errs = append(errs, fmt.Sprintf("rules.map_agile_second and rules.map_agile_third must satisfy 0 > second > third, got %d, %d", r.MAPAgileSecond, r.MAPAgileThird))
	}
	if r.LuaInstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("rules.lua_instruction_limit must be >= 1, got %d", r.LuaInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with BESTIARY_ prefix
	v.SetEnvPrefix("BESTIARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
// Unset keys take their defaults.
//
// Precondition: v must be non-nil.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "bestiary")
	v.SetDefault("database.password", "bestiary")
	v.SetDefault("database.name", "bestiary")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.npc_dir", "content/npcs")
	v.SetDefault("content.script_dir", "content/scripts")
	v.SetDefault("content.glossary_dir", "content/glossary")
	v.SetDefault("content.item_dir", "content/items")
	v.SetDefault("content.condition_dir", "content/conditions")
	v.SetDefault("content.locale_dir", "")

	v.SetDefault("rules.map_second", -5)
	v.SetDefault("rules.map_third", -10)
	v.SetDefault("rules.map_agile_second", -4)
	v.SetDefault("rules.map_agile_third", -8)
	v.SetDefault("rules.lua_instruction_limit", 100000)
	v.SetDefault("rules.lootable_npcs", false)

	v.SetDefault("locale.default", "en-US")
}
