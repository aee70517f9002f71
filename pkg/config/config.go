package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Agent     AgentConfig     `mapstructure:"agent"`
	Twitter   TwitterConfig   `mapstructure:"twitter"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Launchpad LaunchpadConfig `mapstructure:"launchpad"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

type AgentConfig struct {
	Username            string   `mapstructure:"username"`
	Name                string   `mapstructure:"name"`
	Bio                 []string `mapstructure:"bio"`
	Style               []string `mapstructure:"style"`
	TargetUsers         []string `mapstructure:"target_users"`
	PollIntervalSeconds int      `mapstructure:"poll_interval_seconds"`
	PostDelaySeconds    int      `mapstructure:"post_delay_seconds"`
	DryRun              bool     `mapstructure:"dry_run"`
}

func (a AgentConfig) PollInterval() time.Duration {
	return time.Duration(a.PollIntervalSeconds) * time.Second
}

func (a AgentConfig) PostDelay() time.Duration {
	return time.Duration(a.PostDelaySeconds) * time.Second
}

type TwitterConfig struct {
	BearerToken string `mapstructure:"bearer_token"`
	APIBase     string `mapstructure:"api_base"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	LargeModel  string  `mapstructure:"large_model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type LaunchpadConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("agent.poll_interval_seconds", 120)
	v.SetDefault("agent.post_delay_seconds", 5)
	v.SetDefault("agent.dry_run", false)
	v.SetDefault("twitter.api_base", "https://api.twitter.com")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.large_model", "gpt-4o")
	v.SetDefault("openai.max_tokens", 300)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", false)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if token := v.GetString("TWITTER_BEARER_TOKEN"); token != "" {
		config.Twitter.BearerToken = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if config.Agent.Username == "" {
		return nil, fmt.Errorf("agent.username is required")
	}

	return &config, nil
}
