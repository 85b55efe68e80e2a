package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	KlimatprofBaseURL string
	ScraperTimeout    time.Duration
	ScraperRPS        float64
	ScraperUserAgent  string

	SourceTimeout time.Duration
	FeedPath      string

	DatabaseURL    string
	KnowledgeLimit int
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("KLIMATPROF_BASE_URL", "https://klimatprof.online")
	v.SetDefault("SCRAPER_TIMEOUT", 10*time.Second)
	v.SetDefault("SCRAPER_RPS", 5.0)
	v.SetDefault("SCRAPER_USER_AGENT", "")
	v.SetDefault("SOURCE_TIMEOUT", 25*time.Second)
	v.SetDefault("FEED_PATH", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("KNOWLEDGE_LIMIT", 15)
}

// Load reads .env files (project root, then cwd) and the environment into v.
// Flags bound to v beforehand take precedence over both.
func Load(v *viper.Viper) *Config {
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	SetDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Port:              v.GetInt("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		KlimatprofBaseURL: v.GetString("KLIMATPROF_BASE_URL"),
		ScraperTimeout:    v.GetDuration("SCRAPER_TIMEOUT"),
		ScraperRPS:        v.GetFloat64("SCRAPER_RPS"),
		ScraperUserAgent:  v.GetString("SCRAPER_USER_AGENT"),
		SourceTimeout:     v.GetDuration("SOURCE_TIMEOUT"),
		FeedPath:          v.GetString("FEED_PATH"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		KnowledgeLimit:    v.GetInt("KNOWLEDGE_LIMIT"),
	}
}
