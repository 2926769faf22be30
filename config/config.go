//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads the run configuration of a scorecard.
//
// Values come from defaults, an optional YAML file and environment variables
// prefixed with SCORECARD_, in increasing order of precedence. Nested keys map
// to environment names with underscores, e.g. benchmark.iterations is read from
// SCORECARD_BENCHMARK_ITERATIONS.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SCORECARD"

// Mode is the run mode.
type Mode string

const (
	// ModeDev logs at debug level unless a level is configured.
	ModeDev Mode = "dev"
	// ModeTest seeds stochastic reference models deterministically.
	ModeTest Mode = "test"
	// ModeProd is the default.
	ModeProd Mode = "prod"
)

// Store backend names.
const (
	BackendInMemory = "inmemory"
	BackendLocal    = "local"
	BackendMySQL    = "mysql"
	BackendRedis    = "redis"
)

// testSeed seeds reference models in test mode when no seed is configured.
const testSeed = 1

// Config is the run configuration.
type Config struct {
	Mode       Mode       `mapstructure:"mode"`
	LogLevel   string     `mapstructure:"log_level"`
	SampleType string     `mapstructure:"sample_type"`
	Metrics    []string   `mapstructure:"metrics"`
	Evaluation Evaluation `mapstructure:"evaluation"`
	Benchmark  Benchmark  `mapstructure:"benchmark"`
	Store      Store      `mapstructure:"store"`
}

// Evaluation configures the evaluation driver.
type Evaluation struct {
	// CalculationTypes is "single", "rolling" or "both".
	CalculationTypes string `mapstructure:"calculation_types"`
	// Window is the rolling window size; zero means expanding windows.
	Window int `mapstructure:"window"`
	// MaxComplexity is "cheap", "medium" or "expensive".
	MaxComplexity string `mapstructure:"max_complexity"`
}

// Benchmark configures the benchmark comparator.
type Benchmark struct {
	// References are reference model names, see package benchmark/reference.
	References  []string `mapstructure:"references"`
	Iterations  int      `mapstructure:"iterations"`
	Parallelism int      `mapstructure:"parallelism"`
	// Seed seeds stochastic reference models. Zero picks a seed by mode.
	Seed int64 `mapstructure:"seed"`
}

// Store configures persistence.
type Store struct {
	Backend string     `mapstructure:"backend"`
	Local   LocalStore `mapstructure:"local"`
	MySQL   MySQLStore `mapstructure:"mysql"`
	Redis   RedisStore `mapstructure:"redis"`
}

// LocalStore configures the file system store.
type LocalStore struct {
	BaseDir string `mapstructure:"base_dir"`
}

// MySQLStore configures the MySQL store. Instance takes precedence over DSN.
type MySQLStore struct {
	DSN         string `mapstructure:"dsn"`
	Instance    string `mapstructure:"instance"`
	TablePrefix string `mapstructure:"table_prefix"`
	SkipDBInit  bool   `mapstructure:"skip_db_init"`
}

// RedisStore configures the Redis store. Instance takes precedence over URL.
type RedisStore struct {
	URL       string `mapstructure:"url"`
	Instance  string `mapstructure:"instance"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Mode:       ModeProd,
		SampleType: string(metric.SampleOutOfSample),
		Evaluation: Evaluation{
			CalculationTypes: "single",
			MaxComplexity:    metric.ComplexityExpensive.String(),
		},
		Benchmark: Benchmark{
			Iterations:  10,
			Parallelism: 1,
		},
		Store: Store{
			Backend: BackendLocal,
			Local:   LocalStore{BaseDir: "scorecards"},
		},
	}
}

// Load reads the configuration file at path, if any, and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("mode", string(d.Mode))
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("sample_type", d.SampleType)
	v.SetDefault("metrics", d.Metrics)
	v.SetDefault("evaluation.calculation_types", d.Evaluation.CalculationTypes)
	v.SetDefault("evaluation.window", d.Evaluation.Window)
	v.SetDefault("evaluation.max_complexity", d.Evaluation.MaxComplexity)
	v.SetDefault("benchmark.references", d.Benchmark.References)
	v.SetDefault("benchmark.iterations", d.Benchmark.Iterations)
	v.SetDefault("benchmark.parallelism", d.Benchmark.Parallelism)
	v.SetDefault("benchmark.seed", d.Benchmark.Seed)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.local.base_dir", d.Store.Local.BaseDir)
	v.SetDefault("store.mysql.dsn", d.Store.MySQL.DSN)
	v.SetDefault("store.mysql.instance", d.Store.MySQL.Instance)
	v.SetDefault("store.mysql.table_prefix", d.Store.MySQL.TablePrefix)
	v.SetDefault("store.mysql.skip_db_init", d.Store.MySQL.SkipDBInit)
	v.SetDefault("store.redis.url", d.Store.Redis.URL)
	v.SetDefault("store.redis.instance", d.Store.Redis.Instance)
	v.SetDefault("store.redis.key_prefix", d.Store.Redis.KeyPrefix)
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDev, ModeTest, ModeProd:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if _, err := c.ParsedSampleType(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.ParsedMaxComplexity(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Benchmark.Iterations <= 0 {
		return errors.New("config: benchmark.iterations must be greater than 0")
	}
	if c.Benchmark.Parallelism <= 0 {
		return errors.New("config: benchmark.parallelism must be greater than 0")
	}
	switch c.Store.Backend {
	case BackendInMemory, BackendLocal, BackendMySQL, BackendRedis:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// ParsedSampleType returns the configured sample type.
func (c *Config) ParsedSampleType() (metric.SampleType, error) {
	return metric.ParseSampleType(c.SampleType)
}

// ParsedMaxComplexity returns the configured complexity limit.
func (c *Config) ParsedMaxComplexity() (metric.Complexity, error) {
	if c.Evaluation.MaxComplexity == "" {
		return metric.ComplexityExpensive, nil
	}
	return metric.ParseComplexity(c.Evaluation.MaxComplexity)
}

// Seed returns the configured seed, a fixed seed in test mode, or a time based one.
func (c *Config) Seed() int64 {
	switch {
	case c.Benchmark.Seed != 0:
		return c.Benchmark.Seed
	case c.Mode == ModeTest:
		return testSeed
	default:
		return time.Now().UnixNano()
	}
}

// EffectiveLogLevel returns the configured level, or debug in dev mode and info otherwise.
func (c *Config) EffectiveLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	if c.Mode == ModeDev {
		return log.LevelDebug
	}
	return log.LevelInfo
}

// ApplyLogging sets the log level of package log.
func (c *Config) ApplyLogging() {
	log.SetLevel(c.EffectiveLogLevel())
}
