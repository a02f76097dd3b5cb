package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/justsurfingit/jobchat/internal/chat"
)

const (
	AppName   = "jobchat"
	EnvPrefix = "JOBCHAT"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"

	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
	DriverMemory    = "memory"
)

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Store  StoreConfig  `mapstructure:"store"`
	Chat   ChatConfig   `mapstructure:"chat"`
}

type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Debug     bool `mapstructure:"debug"`
	MaxLength int  `mapstructure:"max-length"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	AllowOrigins    []string      `mapstructure:"allow-origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	RateLimit       float64       `mapstructure:"rate-limit"`
	RateBurst       int           `mapstructure:"rate-burst"`
}

type LLMConfig struct {
	Provider    string           `mapstructure:"provider"`
	MaxTokens   int              `mapstructure:"max-tokens"`
	Temperature float64          `mapstructure:"temperature"`
	Timeout     time.Duration    `mapstructure:"timeout"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
}

type OpenRouterConfig struct {
	Key     string `mapstructure:"api-key"`
	KeyFile string `mapstructure:"api-key-file"`
	BaseURL string `mapstructure:"base-url"`
	Model   string `mapstructure:"model"`
	Site    string `mapstructure:"site"`
	Title   string `mapstructure:"title"`
}

type GeminiConfig struct {
	Key     string `mapstructure:"api-key"`
	KeyFile string `mapstructure:"api-key-file"`
	Model   string `mapstructure:"model"`
}

type StoreConfig struct {
	Driver    string          `mapstructure:"driver"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project-id"`
	CredentialsFile string `mapstructure:"credentials-file"`
	Collection      string `mapstructure:"collection"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type ChatConfig struct {
	Language        string        `mapstructure:"language"`
	Strategy        string        `mapstructure:"strategy"`
	SessionTTL      time.Duration `mapstructure:"session-ttl"`
	EvictInterval   time.Duration `mapstructure:"evict-interval"`
	FinalizeTimeout time.Duration `mapstructure:"finalize-timeout"`
}

// SetDefaults registers every key so environment overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.max-length", 200)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allow-origins", []string{"*"})
	v.SetDefault("server.shutdown-timeout", 10*time.Second)
	v.SetDefault("server.rate-limit", 1.0)
	v.SetDefault("server.rate-burst", 5)

	v.SetDefault("llm.provider", ProviderOpenRouter)
	v.SetDefault("llm.max-tokens", chat.DefaultMaxTokens)
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.openrouter.api-key", "")
	v.SetDefault("llm.openrouter.api-key-file", "")
	v.SetDefault("llm.openrouter.base-url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.openrouter.model", "openai/gpt-4o-mini")
	v.SetDefault("llm.openrouter.site", "")
	v.SetDefault("llm.openrouter.title", "TalenTag AI")
	v.SetDefault("llm.gemini.api-key", "")
	v.SetDefault("llm.gemini.api-key-file", "")
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.postgres.dsn", "host=localhost user=postgres password=password dbname=jobchat port=5432 sslmode=disable")
	v.SetDefault("store.firestore.project-id", "")
	v.SetDefault("store.firestore.credentials-file", "")
	v.SetDefault("store.firestore.collection", "jobs")
	v.SetDefault("store.sqlite.path", "jobchat.db")

	v.SetDefault("chat.language", string(chat.DefaultLanguage))
	v.SetDefault("chat.strategy", string(chat.DefaultStrategy))
	v.SetDefault("chat.session-ttl", 2*time.Hour)
	v.SetDefault("chat.evict-interval", 5*time.Minute)
	v.SetDefault("chat.finalize-timeout", chat.DefaultFinalizeTimeout)
}

// legacyEnv maps keys to the variable names the browser build used.
var legacyEnv = map[string]string{
	"llm.openrouter.api-key": "OPENROUTER_API_KEY",
	"llm.openrouter.model":   "OPENROUTER_MODEL",
	"llm.openrouter.site":    "OPENROUTER_SITE",
	"llm.openrouter.title":   "OPENROUTER_TITLE",
	"llm.gemini.api-key":     "GEMINI_API_KEY",
}

// Load reads .env, the optional config file and the environment into v and
// returns the decoded configuration. An empty cfgFile looks for
// jobchat.yaml in the working directory and tolerates its absence.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.NewReplacer(".", "_", "-", "_").Replace(strings.ToUpper(key))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("binding %s: %w", legacy, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %q: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can act on.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.LLM.Provider) {
	case ProviderOpenRouter, ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("unsupported llm provider %q", c.LLM.Provider))
	}
	if c.LLM.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("llm.max-tokens must be positive, got %d", c.LLM.MaxTokens))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.LLM.Temperature))
	}

	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate-limit must not be negative, got %v", c.Server.RateLimit))
	}

	switch strings.ToLower(c.Store.Driver) {
	case DriverFirestore:
		if strings.TrimSpace(c.Store.Firestore.ProjectID) == "" {
			errs = append(errs, errors.New("store.firestore.project-id is required for the firestore driver"))
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Store.Postgres.DSN) == "" {
			errs = append(errs, errors.New("store.postgres.dsn is required for the postgres driver"))
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Store.SQLite.Path) == "" {
			errs = append(errs, errors.New("store.sqlite.path is required for the sqlite driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported store driver %q", c.Store.Driver))
	}

	if _, err := chat.ParseLanguage(c.Chat.Language); err != nil {
		errs = append(errs, fmt.Errorf("chat.language: %w", err))
	}
	if _, err := chat.ParseStrategy(c.Chat.Strategy); err != nil {
		errs = append(errs, fmt.Errorf("chat.strategy: %w", err))
	}

	return errors.Join(errs...)
}

// ChatOptions converts the chat and llm sections into session options.
func (c *Config) ChatOptions() chat.Options {
	lang, _ := chat.ParseLanguage(c.Chat.Language)
	strategy, _ := chat.ParseStrategy(c.Chat.Strategy)
	return chat.Options{
		Language:        lang,
		Strategy:        strategy,
		MaxTokens:       c.LLM.MaxTokens,
		Temperature:     c.LLM.Temperature,
		FinalizeTimeout: c.Chat.FinalizeTimeout,
	}
}
