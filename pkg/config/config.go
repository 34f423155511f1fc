// Package config provides configuration management for the credit scorer.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Sentiment  SentimentConfig  `mapstructure:"sentiment"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Statements StatementsConfig `mapstructure:"statements"`
	Companies  []string         `mapstructure:"companies"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ScoringConfig holds score blending and batch configuration. The
// normalization domains are not configurable; they are fixed calibration
// profiles selected per call path.
type ScoringConfig struct {
	WeightAltman    float64 `mapstructure:"weight_altman"`
	WeightOhlson    float64 `mapstructure:"weight_ohlson"`
	WeightSentiment float64 `mapstructure:"weight_sentiment"`
	MaxBatchSize    int     `mapstructure:"max_batch_size"`
	Concurrency     int     `mapstructure:"concurrency"`
}

// SentimentConfig holds news sentiment configuration.
type SentimentConfig struct {
	FeedURL       string `mapstructure:"feed_url"`
	MaxHeadlines  int    `mapstructure:"max_headlines"`
	UseClassifier bool   `mapstructure:"use_classifier"`
}

// ClassifierConfig holds headline classifier configuration.
type ClassifierConfig struct {
	Provider string       `mapstructure:"provider"` // ollama, openai, gemini
	Ollama   OllamaConfig `mapstructure:"ollama"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

// OllamaConfig holds Ollama-specific configuration.
type OllamaConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// StatementsConfig holds financial statement source configuration.
type StatementsConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RetryAttempts      int           `mapstructure:"retry_attempts"`
	MinRequestInterval time.Duration `mapstructure:"min_request_interval"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists (don't error if not found)
	envFiles := []string{".env", ".env.local"}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Printf("Warning: could not load %s: %v\n", envFile, err)
			} else {
				fmt.Printf("Loaded environment from %s\n", envFile)
			}
		}
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			fmt.Printf("Warning: could not read config file: %v\n", err)
		}
	} else {
		// Look for config in default locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			fmt.Printf("Warning: could not read config file: %v\n", err)
		}
	}

	// Read from environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "debug")

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")

	// Scoring defaults
	v.SetDefault("scoring.weight_altman", 0.5)
	v.SetDefault("scoring.weight_ohlson", 0.4)
	v.SetDefault("scoring.weight_sentiment", 0.1)
	v.SetDefault("scoring.max_batch_size", 10)
	v.SetDefault("scoring.concurrency", 4)

	// Sentiment defaults
	v.SetDefault("sentiment.feed_url", "https://news.google.com/rss/search?q=%s+stock+financial")
	v.SetDefault("sentiment.max_headlines", 20)
	v.SetDefault("sentiment.use_classifier", false)

	// Classifier defaults
	v.SetDefault("classifier.provider", "ollama")
	v.SetDefault("classifier.ollama.url", "http://localhost:11434")
	v.SetDefault("classifier.ollama.model", "llama2")
	v.SetDefault("classifier.openai.model", "gpt-4o-mini")
	v.SetDefault("classifier.gemini.model", "gemini-pro")

	// Statement source defaults
	v.SetDefault("statements.base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("statements.timeout", "15s")
	v.SetDefault("statements.retry_attempts", 3)
	v.SetDefault("statements.min_request_interval", "200ms")

	// Curated ticker list served by the companies endpoint
	v.SetDefault("companies", []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA",
		"META", "NVDA", "NFLX", "INTC", "ADBE",
	})
}

// bindEnvVars binds environment variables to config keys.
func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.log_level", "LOG_LEVEL")

	// Server
	_ = v.BindEnv("server.port", "SERVER_PORT")

	// Scoring
	_ = v.BindEnv("scoring.weight_altman", "WEIGHT_ALTMAN")
	_ = v.BindEnv("scoring.weight_ohlson", "WEIGHT_OHLSON")
	_ = v.BindEnv("scoring.weight_sentiment", "WEIGHT_SENTIMENT")
	_ = v.BindEnv("scoring.max_batch_size", "MAX_BATCH_SIZE")
	_ = v.BindEnv("scoring.concurrency", "SCORING_CONCURRENCY")

	// Sentiment
	_ = v.BindEnv("sentiment.feed_url", "SENTIMENT_FEED_URL")
	_ = v.BindEnv("sentiment.use_classifier", "USE_CLASSIFIER")

	// Classifier
	_ = v.BindEnv("classifier.provider", "CLASSIFIER_PROVIDER")
	_ = v.BindEnv("classifier.ollama.url", "OLLAMA_URL")
	_ = v.BindEnv("classifier.ollama.model", "OLLAMA_MODEL")
	_ = v.BindEnv("classifier.openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("classifier.openai.model", "OPENAI_MODEL")
	_ = v.BindEnv("classifier.gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("classifier.gemini.model", "GEMINI_MODEL")

	// Statements
	_ = v.BindEnv("statements.base_url", "STATEMENTS_BASE_URL")
}

// IsDevelopment returns true if the app is in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if the app is in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
