package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Sources  SourcesConfig  `envPrefix:"SOURCES_"`
	Currency CurrencyConfig `envPrefix:"CURRENCY_"`
	LLM      LLMConfig      `envPrefix:"LLM_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

type SourcesConfig struct {
	// Enabled lists the adapters registered at startup, in dispatch order.
	Enabled []string `env:"ENABLED" envDefault:"ebay,walmart" envSeparator:","`

	EbayBaseURL    string `env:"EBAY_BASE_URL"`
	WalmartBaseURL string `env:"WALMART_BASE_URL"`

	PartnerBaseURL  string `env:"PARTNER_BASE_URL"`
	PartnerCurrency string `env:"PARTNER_CURRENCY" envDefault:"USD"`

	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	OverallTimeout time.Duration `env:"OVERALL_TIMEOUT" envDefault:"25s"`
	MaxResults     int           `env:"MAX_RESULTS" envDefault:"25"`
	RequestsPerSec float64       `env:"REQUESTS_PER_SEC" envDefault:"2"`
}

type CurrencyConfig struct {
	RateAPIBaseURL string        `env:"RATE_API_BASE_URL" envDefault:"https://api.frankfurter.app"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"5s"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"15m"`
}

type LLMConfig struct {
	// UseForRewrite switches the query rewriter from the heuristic
	// stop-word filter to the Genkit-backed keyword extractor.
	UseForRewrite  bool   `env:"USE_FOR_REWRITE" envDefault:"false"`
	GoogleAIAPIKey string `env:"GOOGLE_AI_API_KEY"`
	Model          string `env:"MODEL" envDefault:"googleai/gemini-2.0-flash"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
