package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "AGENCY_CONFIG"

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	HTTP       HTTPConfig      `yaml:"http"`
	Storage    StorageConfig   `yaml:"storage"`
	Mail       MailConfig      `yaml:"mail"`
	Agency     AgencyConfig    `yaml:"agency"`
	Chat       ChatConfig      `yaml:"chat"`
	Queue      QueueConfig     `yaml:"queue"`
	Outreach   OutreachConfig  `yaml:"outreach"`
	StaleLeads StaleLeadConfig `yaml:"staleLeads"`
	LogLevel   string          `yaml:"logLevel"`
}

type HTTPConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"corsOrigins"`
	AdminSecret string   `yaml:"adminSecret"`
	OpenAdmin   bool     `yaml:"openAdmin"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DataDir     string `yaml:"dataDir"`
	DatabaseURL string `yaml:"databaseUrl"`
}

type MailConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	From       string `yaml:"from"`
	FromName   string `yaml:"fromName"`
	AdminEmail string `yaml:"adminEmail"`
}

type AgencyConfig struct {
	Name       string `yaml:"name"`
	SenderName string `yaml:"senderName"`
}

type ChatConfig struct {
	APIKey       string `yaml:"apiKey"`
	Model        string `yaml:"model"`
	Endpoint     string `yaml:"endpoint"`
	SystemPrompt string `yaml:"systemPrompt"`
}

type QueueConfig struct {
	URL string `yaml:"url"`
}

type OutreachConfig struct {
	Delay time.Duration `yaml:"delay"`
}

type StaleLeadConfig struct {
	Schedule string        `yaml:"schedule"`
	MaxAge   time.Duration `yaml:"maxAge"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Driver:  StoreFile,
			DataDir: "data",
		},
		Mail: MailConfig{
			Port: 587,
		},
		Agency: AgencyConfig{
			Name:       "Northwind Studio",
			SenderName: "The Northwind team",
		},
		Chat: ChatConfig{
			SystemPrompt: "You are the website assistant for a digital marketing agency. " +
				"Answer questions about our services, process and pricing briefly and politely, " +
				"and invite visitors to leave their name and email so the team can follow up.",
		},
		Outreach: OutreachConfig{
			Delay: 5 * time.Second,
		},
		StaleLeads: StaleLeadConfig{
			Schedule: "0 9 * * *",
			MaxAge:   72 * time.Hour,
		},
		LogLevel: "info",
	}
}

// Load reads .env (if present), then the YAML file named by AGENCY_CONFIG
// over the defaults, then environment overrides.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv(configPathEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnvOverrides(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnvOverrides(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("HTTP_ADDR", &c.HTTP.Addr)
	str("ADMIN_SECRET", &c.HTTP.AdminSecret)
	if v, ok := lookup("ADMIN_OPEN"); ok && v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: ADMIN_OPEN: %w", err)
		}
		c.HTTP.OpenAdmin = open
	}
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.HTTP.CORSOrigins = splitList(v)
	}

	str("STORE_DRIVER", &c.Storage.Driver)
	str("DATA_DIR", &c.Storage.DataDir)
	str("DATABASE_URL", &c.Storage.DatabaseURL)

	str("MAIL_HOST", &c.Mail.Host)
	str("MAIL_USER", &c.Mail.User)
	str("MAIL_PASS", &c.Mail.Password)
	str("MAIL_FROM", &c.Mail.From)
	str("MAIL_FROM_NAME", &c.Mail.FromName)
	str("ADMIN_EMAIL", &c.Mail.AdminEmail)
	if v, ok := lookup("MAIL_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: MAIL_PORT: %w", err)
		}
		c.Mail.Port = port
	}

	str("AGENCY_NAME", &c.Agency.Name)
	str("AGENCY_SENDER", &c.Agency.SenderName)

	str("OPENAI_API_KEY", &c.Chat.APIKey)
	str("OPENAI_MODEL", &c.Chat.Model)
	str("OPENAI_ENDPOINT", &c.Chat.Endpoint)
	str("CHATBOT_PROMPT", &c.Chat.SystemPrompt)

	str("AMQP_URL", &c.Queue.URL)

	if v, ok := lookup("OUTREACH_DELAY"); ok && v != "" {
		d, err := parseDelay(v)
		if err != nil {
			return fmt.Errorf("config: OUTREACH_DELAY: %w", err)
		}
		c.Outreach.Delay = d
	}

	str("STALE_LEAD_CRON", &c.StaleLeads.Schedule)
	if v, ok := lookup("STALE_LEAD_AGE"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: STALE_LEAD_AGE: %w", err)
		}
		c.StaleLeads.MaxAge = d
	}

	str("LOG_LEVEL", &c.LogLevel)
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StoreFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("config: DATA_DIR is required for the file store")
		}
	case StorePostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q (want file, postgres or memory)", c.Storage.Driver)
	}
	if c.Outreach.Delay < 0 {
		return fmt.Errorf("config: outreach delay must not be negative")
	}
	if c.StaleLeads.MaxAge <= 0 {
		return fmt.Errorf("config: stale lead age must be positive")
	}
	return nil
}

// MailEnabled reports whether an SMTP host is set.
func (c Config) MailEnabled() bool {
	return c.Mail.Host != ""
}

// parseDelay accepts plain milliseconds ("5000") or a Go duration ("5s").
func parseDelay(v string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
