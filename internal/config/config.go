package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hwangga/signal-app/internal/models"
)

type Config struct {
	YouTube  YouTubeConfig `yaml:"youtube"`
	Server   ServerConfig  `yaml:"server"`
	Search   SearchConfig  `yaml:"search"`
	AI       AIConfig      `yaml:"ai"`
	Email    EmailConfig   `yaml:"email"`
	Schedule string        `yaml:"schedule"` // cron spec for background refresh, empty disables it
}

type YouTubeConfig struct {
	// APIKey is the default credential. When empty, the OAuth client pair
	// below is used with the device authorization flow.
	APIKey         string        `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID       string        `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret   string        `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile      string        `yaml:"token_file"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type SearchConfig struct {
	// Default is the criteria used by --once runs and by the scheduled
	// refresher before any interactive search has happened.
	Default models.SearchCriteria `yaml:"default"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.YouTube.ClientID == "" {
		cfg.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.YouTube.ClientSecret == "" {
		cfg.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if cfg.YouTube.TokenFile == "" {
		cfg.YouTube.TokenFile = "youtube_token.json"
	}
	if cfg.YouTube.RequestTimeout == 0 {
		cfg.YouTube.RequestTimeout = 15 * time.Second
	}
	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.YouTube.APIKey == "" && (c.YouTube.ClientID == "" || c.YouTube.ClientSecret == "") {
		return fmt.Errorf("a YouTube credential is required (set YOUTUBE_API_KEY, or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET for OAuth)")
	}
	if c.Schedule != "" && c.Search.Default.Keyword == "" {
		return fmt.Errorf("search.default.keyword is required when a refresh schedule is set")
	}
	return nil
}

// EmailConfigured reports whether the digest sender has everything it needs.
func (c *Config) EmailConfigured() bool {
	e := c.Email
	return e.SMTPServer != "" && e.Username != "" && e.Password != "" && e.FromEmail != "" && e.ToEmail != ""
}
