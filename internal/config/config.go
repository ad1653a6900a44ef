package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	PokeAPI      PokeAPIConfig      `mapstructure:"pokeapi"`
	Marvel       MarvelConfig       `mapstructure:"marvel"`
	RickAndMorty RickAndMortyConfig `mapstructure:"rickandmorty"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Browser      BrowserConfig      `mapstructure:"browser"`
	Themes       map[string]Theme   `mapstructure:"themes"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// HTTPConfig holds settings shared by all upstream API clients
type HTTPConfig struct {
	Timeout              int      `mapstructure:"timeout"`
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxWorkers           int      `mapstructure:"max_workers"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	CircuitBreakerDelay  int      `mapstructure:"circuit_breaker_delay"`
	Proxies              []string `mapstructure:"proxies"`
	UserAgent            string   `mapstructure:"user_agent"`
}

// PokeAPIConfig holds PokeAPI configuration
type PokeAPIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// MarvelConfig holds Marvel API configuration
type MarvelConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	PublicKey  string `mapstructure:"public_key"`
	PrivateKey string `mapstructure:"private_key"`
}

// RickAndMortyConfig holds Rick and Morty API configuration
type RickAndMortyConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN returns the pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
	CacheTTL      int    `mapstructure:"cache_ttl"`
	Workers       int    `mapstructure:"workers"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// BrowserConfig holds settings for the terminal browser
type BrowserConfig struct {
	APIBaseURL string `mapstructure:"api_base_url"`
	PageSize   int    `mapstructure:"page_size"`
	Timeout    int    `mapstructure:"timeout"`
}

// Theme holds per-domain presentation settings
type Theme struct {
	Title    string `mapstructure:"title"`
	Accent   string `mapstructure:"accent"`
	Fallback string `mapstructure:"fallback"`
}

// Load loads configuration from config.yaml, .env and the environment.
// A missing config.yaml is not an error: defaults and environment apply.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Warn("config.yaml not found, using defaults and environment")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks values that would make the application misbehave.
func (c *Config) Validate() error {
	if c.Browser.PageSize <= 0 {
		return fmt.Errorf("browser.page_size must be positive, got %d", c.Browser.PageSize)
	}
	if c.HTTP.MaxWorkers <= 0 {
		return fmt.Errorf("http.max_workers must be positive, got %d", c.HTTP.MaxWorkers)
	}
	if c.HTTP.MaxRequestsPerSecond <= 0 {
		return fmt.Errorf("http.max_requests_per_second must be positive, got %d", c.HTTP.MaxRequestsPerSecond)
	}

	if c.Marvel.PublicKey == "" || c.Marvel.PrivateKey == "" {
		log.Warn("⚠️ MARVEL_PUBLIC_KEY or MARVEL_PRIVATE_KEY not set, Marvel endpoints will fail")
	}

	return nil
}

// ApplyLogLevel configures logrus from the log section.
func (c *Config) ApplyLogLevel() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		log.Warnf("Invalid log level %q, using info", c.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 60)

	v.SetDefault("log.level", "info")

	v.SetDefault("http.timeout", 30)
	v.SetDefault("http.max_retries", 2)
	v.SetDefault("http.max_workers", 10)
	v.SetDefault("http.max_requests_per_second", 20)
	v.SetDefault("http.circuit_breaker_delay", 60)
	v.SetDefault("http.proxies", []string{})
	v.SetDefault("http.user_agent", "APIMultiverse/1.0")

	v.SetDefault("pokeapi.base_url", "https://pokeapi.co/api/v2")

	v.SetDefault("marvel.base_url", "https://gateway.marvel.com/v1/public")
	v.SetDefault("marvel.public_key", "")
	v.SetDefault("marvel.private_key", "")

	v.SetDefault("rickandmorty.base_url", "https://rickandmortyapi.com/api")

	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "multiverse")
	v.SetDefault("database.user", "multiverse_user")
	v.SetDefault("database.password", "multiverse_pass")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.consumer_group", "multiverse_consumer")
	v.SetDefault("redis.min_idle_time", 120)
	v.SetDefault("redis.cache_ttl", 3600)
	v.SetDefault("redis.workers", 2)

	v.SetDefault("browser.api_base_url", "http://localhost:8000/api")
	v.SetDefault("browser.page_size", 20)
	v.SetDefault("browser.timeout", 30)

	v.SetDefault("themes.pokemon.title", "Pokémon")
	v.SetDefault("themes.pokemon.accent", "#ffcb05")
	v.SetDefault("themes.pokemon.fallback", "/assets/images/pokeball-placeholder.png")
	v.SetDefault("themes.marvel.title", "Marvel")
	v.SetDefault("themes.marvel.accent", "#e62429")
	v.SetDefault("themes.marvel.fallback", "/assets/images/marvel-placeholder.jpg")
	v.SetDefault("themes.rickandmorty.title", "Rick and Morty")
	v.SetDefault("themes.rickandmorty.accent", "#97ce4c")
	v.SetDefault("themes.rickandmorty.fallback", "/assets/images/portal-placeholder.png")
}
