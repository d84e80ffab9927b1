package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		RateLimit      struct {
			RequestsPerMinute int `yaml:"requestsPerMinute"`
			Burst             int `yaml:"burst"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Database struct {
		Driver      string `yaml:"driver"` // postgres | mysql | memory
		URL         string `yaml:"url"`
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		User        string `yaml:"user"`
		Password    string `yaml:"password"`
		Name        string `yaml:"name"`
		SSLMode     string `yaml:"sslmode"`
		AutoMigrate bool   `yaml:"autoMigrate"`
	} `yaml:"database"`

	AI struct {
		Provider string        `yaml:"provider"` // gemini | openai
		Model    string        `yaml:"model"`
		APIKey   string        `yaml:"apiKey"`
		BaseURL  string        `yaml:"baseURL"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"ai"`

	Auth struct {
		Mode    string            `yaml:"mode"` // apikey | header
		Header  string            `yaml:"header"`
		APIKeys map[string]string `yaml:"apiKeys"` // user id -> key
	} `yaml:"auth"`

	Archive struct {
		Backend   string `yaml:"backend"` // "" | minio | s3
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
		UseSSL    bool   `yaml:"useSSL"`
		PathStyle bool   `yaml:"pathStyle"`
	} `yaml:"archive"`

	Events struct {
		AMQPURL  string `yaml:"amqpUrl"`
		Exchange string `yaml:"exchange"`
	} `yaml:"events"`
}

// Load baca file config.yaml. A missing file is fine: defaults and env still apply.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv: secret dari environment menang atas file
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		c.AI.Provider = v
	}
	switch c.AI.Provider {
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			c.AI.APIKey = v
		}
	default:
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			c.AI.APIKey = v
		}
	}
	if v := os.Getenv("PROFILEPILOT_API_KEYS"); v != "" {
		c.Auth.APIKeys = ParseAPIKeys(v)
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		c.Events.AMQPURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimit.RequestsPerMinute == 0 {
		c.Server.RateLimit.RequestsPerMinute = 10
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 3
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 60 * time.Second
	}
	if c.Auth.Mode == "" {
		c.Auth.Mode = "apikey"
	}
}

// Validate fails fast on settings the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AI.APIKey) == "" {
		return fmt.Errorf("%w: %s provider requires an API key", analysis.ErrConfiguration, c.AI.Provider)
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "memory":
	default:
		return fmt.Errorf("%w: unknown database driver %q", analysis.ErrConfiguration, c.Database.Driver)
	}
	switch c.Auth.Mode {
	case "apikey":
		if len(c.Auth.APIKeys) == 0 {
			return fmt.Errorf("%w: auth mode apikey needs at least one key", analysis.ErrConfiguration)
		}
	case "header":
	default:
		return fmt.Errorf("%w: unknown auth mode %q", analysis.ErrConfiguration, c.Auth.Mode)
	}
	switch c.Archive.Backend {
	case "", "minio", "s3":
	default:
		return fmt.Errorf("%w: unknown archive backend %q", analysis.ErrConfiguration, c.Archive.Backend)
	}
	return nil
}

// ParseAPIKeys reads "user:key,user2:key2".
func ParseAPIKeys(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		user, key, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || user == "" || key == "" {
			continue
		}
		out[strings.TrimSpace(user)] = strings.TrimSpace(key)
	}
	return out
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
