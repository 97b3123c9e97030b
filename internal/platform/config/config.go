// Package config arma la configuración del proceso: defaults, archivo YAML
// opcional (CONFIG_FILE) y overrides por env. El env siempre gana.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port    string `yaml:"port"`
	AppName string `yaml:"app_name"`

	Log     Log     `yaml:"log"`
	Engine  Engine  `yaml:"engine"`
	Risk    Risk    `yaml:"risk"`
	Source  Source  `yaml:"source"`
	NATS    NATS    `yaml:"nats"`
	HTTP    HTTP    `yaml:"http"`
	Metrics Metrics `yaml:"metrics"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Engine struct {
	MaxDepth              int     `yaml:"max_depth"`
	FounderInbreeding     float64 `yaml:"founder_inbreeding"`
	EnforceSex            bool    `yaml:"enforce_sex"`
	RankWorkers           int     `yaml:"rank_workers"`
	DefaultMaxCoefficient float64 `yaml:"default_max_coefficient"`
	DescendantDepth       int     `yaml:"descendant_depth"`
}

type Risk struct {
	LowPercent  float64 `yaml:"low_percent"`
	HighPercent float64 `yaml:"high_percent"`
}

type SourceKind string

const (
	SourcePostgres SourceKind = "postgres"
	SourceCSV      SourceKind = "csv"
	SourceRemote   SourceKind = "remote"
	SourceMemory   SourceKind = "memory"
)

type Source struct {
	Kind SourceKind `yaml:"kind"`
	DSN  string     `yaml:"dsn"`
	CSV  string     `yaml:"csv"`
	URL  string     `yaml:"url"`
}

type NATS struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type HTTP struct {
	RateLimit  float64 `yaml:"rate_limit"`
	RateBurst  int     `yaml:"rate_burst"`
	AdminToken string  `yaml:"admin_token"`
}

type Metrics struct {
	Enabled bool `yaml:"enabled"`
}

func Default() Config {
	return Config{
		Port:    "8080",
		AppName: "herd-pedigree",
		Log:     Log{Level: "info", Format: "text"},
		Engine: Engine{
			MaxDepth:              5,
			FounderInbreeding:     0,
			EnforceSex:            true,
			RankWorkers:           runtime.GOMAXPROCS(0),
			DefaultMaxCoefficient: 0.0625,
			DescendantDepth:       3,
		},
		Risk: Risk{
			LowPercent:  3.125,
			HighPercent: 6.25,
		},
		NATS: NATS{
			Subject: "pedigree.refresh",
		},
		HTTP: HTTP{
			RateLimit: 20,
			RateBurst: 40,
		},
		Metrics: Metrics{Enabled: true},
	}
}

// Load = Default + CONFIG_FILE + env.
func Load() (Config, error) {
	return load(os.Getenv, os.ReadFile)
}

func load(getenv func(string) string, readFile func(string) ([]byte, error)) (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(getenv("CONFIG_FILE")); path != "" {
		raw, err := readFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	if cfg.Source.Kind == "" {
		cfg.Source.Kind = inferSource(cfg.Source)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	p := envParser{getenv: getenv}

	p.strVar("PORT", &cfg.Port)
	p.strVar("APP_NAME", &cfg.AppName)
	p.strVar("LOG_LEVEL", &cfg.Log.Level)
	p.strVar("LOG_FORMAT", &cfg.Log.Format)

	p.intVar("ENGINE_MAX_DEPTH", &cfg.Engine.MaxDepth)
	p.floatVar("FOUNDER_INBREEDING", &cfg.Engine.FounderInbreeding)
	p.boolVar("ENFORCE_SEX", &cfg.Engine.EnforceSex)
	p.intVar("RANK_WORKERS", &cfg.Engine.RankWorkers)
	p.floatVar("DEFAULT_MAX_COEFFICIENT", &cfg.Engine.DefaultMaxCoefficient)
	p.intVar("DESCENDANT_DEPTH", &cfg.Engine.DescendantDepth)

	p.floatVar("RISK_LOW_PERCENT", &cfg.Risk.LowPercent)
	p.floatVar("RISK_HIGH_PERCENT", &cfg.Risk.HighPercent)

	p.strVar("DB_DSN", &cfg.Source.DSN)
	p.strVar("PEDIGREE_CSV", &cfg.Source.CSV)
	p.strVar("PEDIGREE_URL", &cfg.Source.URL)
	var kind string
	p.strVar("PEDIGREE_SOURCE", &kind)
	if kind != "" {
		cfg.Source.Kind = SourceKind(strings.ToLower(kind))
	}

	p.strVar("NATS_URL", &cfg.NATS.URL)
	p.strVar("NATS_SUBJECT", &cfg.NATS.Subject)

	p.floatVar("RATE_LIMIT", &cfg.HTTP.RateLimit)
	p.intVar("RATE_BURST", &cfg.HTTP.RateBurst)
	p.strVar("ADMIN_TOKEN", &cfg.HTTP.AdminToken)

	p.boolVar("METRICS_ENABLED", &cfg.Metrics.Enabled)

	return errors.Join(p.errs...)
}

func inferSource(s Source) SourceKind {
	switch {
	case strings.TrimSpace(s.DSN) != "":
		return SourcePostgres
	case strings.TrimSpace(s.CSV) != "":
		return SourceCSV
	case strings.TrimSpace(s.URL) != "":
		return SourceRemote
	default:
		return SourceMemory
	}
}

// Validate sólo revisa forma; los rangos del motor los valida el propio motor.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, fmt.Errorf("%w: port required", ErrInvalidConfig))
	}
	switch c.Source.Kind {
	case SourcePostgres:
		if strings.TrimSpace(c.Source.DSN) == "" {
			errs = append(errs, fmt.Errorf("%w: postgres source requires DB_DSN", ErrInvalidConfig))
		}
	case SourceCSV:
		if strings.TrimSpace(c.Source.CSV) == "" {
			errs = append(errs, fmt.Errorf("%w: csv source requires PEDIGREE_CSV", ErrInvalidConfig))
		}
	case SourceRemote:
		if strings.TrimSpace(c.Source.URL) == "" {
			errs = append(errs, fmt.Errorf("%w: remote source requires PEDIGREE_URL", ErrInvalidConfig))
		}
	case SourceMemory:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, c.Source.Kind))
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("%w: rate limit must not be negative", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

type envParser struct {
	getenv func(string) string
	errs   []error
}

func (p *envParser) lookup(key string) (string, bool) {
	v := strings.TrimSpace(p.getenv(key))
	return v, v != ""
}

func (p *envParser) strVar(key string, dst *string) {
	if v, ok := p.lookup(key); ok {
		*dst = v
	}
}

func (p *envParser) intVar(key string, dst *int) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v))
		return
	}
	*dst = n
}

func (p *envParser) floatVar(key string, dst *float64) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v))
		return
	}
	*dst = f
}

func (p *envParser) boolVar(key string, dst *bool) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, v))
		return
	}
	*dst = b
}
