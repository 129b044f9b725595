package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr   string `env:"SERVER_ADDR" envDefault:":8080"`
	MetricsAddr  string `env:"METRICS_ADDR" envDefault:":9091"`
	Timezone     string `env:"TIMEZONE" envDefault:"America/New_York"`
	MaxBodyBytes int64  `env:"MAX_BODY_BYTES" envDefault:"65536"` // 64KB

	ExtractorAPIURL  string        `env:"EXTRACTOR_API_URL,required"`
	ExtractorAPIKey  string        `env:"EXTRACTOR_API_KEY,required"`
	ExtractorModel   string        `env:"EXTRACTOR_MODEL" envDefault:"gpt-4o-mini"`
	ExtractorTimeout time.Duration `env:"EXTRACTOR_TIMEOUT" envDefault:"60s"`

	CalendarAPIURL   string        `env:"CALENDAR_API_URL,required"`
	CalendarUsername string        `env:"CALENDAR_USERNAME,required"`
	CalendarPassword string        `env:"CALENDAR_PASSWORD,required"`
	CalendarTimeout  time.Duration `env:"CALENDAR_TIMEOUT" envDefault:"30s"`

	// Messaging credentials are optional. Without them voice confirmations
	// are logged instead of sent.
	MessagingAPIURL     string        `env:"MESSAGING_API_URL"`
	MessagingAccountSID string        `env:"MESSAGING_ACCOUNT_SID"`
	MessagingAuthToken  string        `env:"MESSAGING_AUTH_TOKEN"`
	MessagingFromNumber string        `env:"MESSAGING_FROM_NUMBER"`
	MessagingTimeout    time.Duration `env:"MESSAGING_TIMEOUT" envDefault:"15s"`

	// WebhookAuthToken signs inbound webhook posts; empty disables
	// verification. ManualAPIKey guards the manual API; empty leaves it open.
	WebhookAuthToken string `env:"WEBHOOK_AUTH_TOKEN"`
	ManualAPIKey     string `env:"MANUAL_API_KEY"`

	EveningKeywords    string `env:"EVENING_KEYWORDS" envDefault:"dinner,party,social,happy hour,reception,gala,concert,banquet,mixer,fundraiser"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EveningKeywordList splits the configured evening keywords.
func (c *Config) EveningKeywordList() []string {
	parts := strings.Split(c.EveningKeywords, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

// MessagingConfigured reports whether outbound messaging credentials are set.
func (c *Config) MessagingConfigured() bool {
	return c.MessagingAPIURL != "" && c.MessagingAccountSID != "" &&
		c.MessagingAuthToken != "" && c.MessagingFromNumber != ""
}
