package config

import (
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Completion CompletionConfig `yaml:"completion"`
	Content    ContentConfig    `yaml:"content"`
	Journal    JournalConfig    `yaml:"journal"`
	Redis      RedisConfig      `yaml:"redis"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// CompletionConfig selects the active language-model provider and bounds
// the single completion attempt.
type CompletionConfig struct {
	Provider    string        `yaml:"provider"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
}

// ContentConfig points at the blob store holding the adventure module
// document used to ground the game-master persona.
type ContentConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Document     string        `yaml:"document"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// JournalConfig is the Postgres transcript sink. An empty host disables
// journaling entirely.
type JournalConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

func (j JournalConfig) Enabled() bool {
	return j.Host != ""
}

func (j JournalConfig) DSN() string {
	return "postgres://" + j.User + ":" + j.Password + "@" + j.Host + ":" + strconv.Itoa(j.Port) + "/" + j.Name + "?sslmode=disable"
}

type RedisConfig struct {
	Addresses []string `yaml:"addresses"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	PoolSize  int      `yaml:"pool_size"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	MetricsPort int    `yaml:"metrics_port"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 15 * time.Second,
		},
		Completion: CompletionConfig{
			Provider:    "openai",
			Timeout:     10 * time.Second,
			MaxTokens:   500,
			Temperature: 0.8,
		},
		Content: ContentConfig{
			Document:     "Another-Bug-Hunt-v1.2.txt",
			FetchTimeout: 30 * time.Second,
			CacheTTL:     5 * time.Minute,
		},
		Journal: JournalConfig{
			Port:            5432,
			Name:            "bughunt",
			User:            "bughunt",
			MaxOpenConns:    10,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			DB:       0,
			PoolSize: 20,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerMinute: 60,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			MetricsPort: 9090,
		},
	}
}
