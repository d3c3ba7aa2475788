// Package config provides Viper-based configuration loading for Menagerie.
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

// ContentConfig holds the on-disk locations of game content.
type ContentConfig struct {
	// Dir is the root content directory containing the abilities/, species/,
	// statuses/, and items/ subdirectories.
	Dir string `mapstructure:"dir"`
	// ScriptDir is the root script directory; item hooks live in its items/
	// subdirectory.
	ScriptDir string `mapstructure:"script_dir"`
	// ScriptInstructionLimit caps the Lua opcodes a single hook may execute.
	// Zero disables the limit.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// AbilityDir returns the ability definition directory.
func (c ContentConfig) AbilityDir() string { return c.Dir + "/abilities" }

// SpeciesDir returns the species template directory.
func (c ContentConfig) SpeciesDir() string { return c.Dir + "/species" }

// StatusDir returns the status definition directory.
func (c ContentConfig) StatusDir() string { return c.Dir + "/statuses" }

// ItemDir returns the item definition directory.
func (c ContentConfig) ItemDir() string { return c.Dir + "/items" }

// ItemScriptDir returns the item hook script directory.
func (c ContentConfig) ItemScriptDir() string { return c.ScriptDir + "/items" }

// SimulatorConfig holds battle simulator settings.
type SimulatorConfig struct {
	// Battles is the number of encounters one simulator run plays out.
	Battles int `mapstructure:"battles"`
	// MaxRounds aborts a battle that has not resolved after this many rounds.
	MaxRounds int `mapstructure:"max_rounds"`
	// SquadSize is the number of monsters on the player's side.
	SquadSize int `mapstructure:"squad_size"`
	// EnemyCount is the number of enemies per encounter.
	EnemyCount int `mapstructure:"enemy_count"`
	// BaseLevel is the enemy level in wave 1.
	BaseLevel int `mapstructure:"base_level"`
	// PersistReports writes battle reports to PostgreSQL when true.
	PersistReports bool `mapstructure:"persist_reports"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Content   ContentConfig   `mapstructure:"content"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
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
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulator(c.Simulator); err != nil {
		errs = append(errs, err.Error())
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

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Dir == "" {
		errs = append(errs, "content.dir must not be empty")
	}
	if c.ScriptDir == "" {
		errs = append(errs, "content.script_dir must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulator(s SimulatorConfig) error {
	var errs []string
	if s.Battles < 1 {
		errs = append(errs, fmt.Sprintf("simulator.battles must be >= 1, got %d", s.Battles))
	}
	if s.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("simulator.max_rounds must be >= 1, got %d", s.MaxRounds))
	}
	if s.SquadSize < 1 {
		errs = append(errs, fmt.Sprintf("simulator.squad_size must be >= 1, got %d", s.SquadSize))
	}
	if s.EnemyCount < 1 {
		errs = append(errs, fmt.Sprintf("simulator.enemy_count must be >= 1, got %d", s.EnemyCount))
	}
	if s.BaseLevel < 1 {
		errs = append(errs, fmt.Sprintf("simulator.base_level must be >= 1, got %d", s.BaseLevel))
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

	// Environment variable overrides with MENAGERIE_ prefix
	v.SetEnvPrefix("MENAGERIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
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
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
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
	v.SetDefault("database.user", "menagerie")
	v.SetDefault("database.password", "menagerie")
	v.SetDefault("database.name", "menagerie")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.script_dir", "content/scripts")
	v.SetDefault("content.script_instruction_limit", 1000000)

	v.SetDefault("simulator.battles", 10)
	v.SetDefault("simulator.max_rounds", 100)
	v.SetDefault("simulator.squad_size", 3)
	v.SetDefault("simulator.enemy_count", 3)
	v.SetDefault("simulator.base_level", 5)
	v.SetDefault("simulator.persist_reports", false)
}
