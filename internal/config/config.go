package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	News      NewsConfig      `mapstructure:"news"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Digest    DigestConfig    `mapstructure:"digest"`
	Quota     QuotaConfig     `mapstructure:"quota"`
	Search    SearchConfig    `mapstructure:"search"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Cron      CronConfig      `mapstructure:"cron"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NewsConfig struct {
	Yahoo YahooConfig `mapstructure:"yahoo"`
	RSS   RSSConfig   `mapstructure:"rss"`
}

type YahooConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RSSConfig struct {
	// Feeds are polled in listed order; that order is part of the article
	// ordering contract for undated entries.
	Feeds   []RSSFeedConfig `mapstructure:"feeds"`
	Timeout time.Duration   `mapstructure:"timeout"`
}

type RSSFeedConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type FetchConfig struct {
	MaxArticles     int           `mapstructure:"max_articles"`
	MinArticles     int           `mapstructure:"min_articles"`
	ArticleTTL      time.Duration `mapstructure:"article_ttl"`
	MaxContentChars int           `mapstructure:"max_content_chars"`
}

type LLMConfig struct {
	Provider        string        `mapstructure:"provider"`
	Model           string        `mapstructure:"model"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
}

type DigestConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	Languages    []string      `mapstructure:"languages"`
	MaxBullets   int           `mapstructure:"max_bullets"`
	ExcerptChars int           `mapstructure:"excerpt_chars"`
}

type QuotaConfig struct {
	Backend    string `mapstructure:"backend"`
	DailyLimit int    `mapstructure:"daily_limit"`
	Timezone   string `mapstructure:"timezone"`
}

type SearchConfig struct {
	RatePerMinute int `mapstructure:"rate_per_minute"`
	RateBurst     int `mapstructure:"rate_burst"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type CronConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	DigestCleanup string `mapstructure:"digest_cleanup"`
	QuotaCleanup  string `mapstructure:"quota_cleanup"`
}

type RetentionConfig struct {
	Digest time.Duration `mapstructure:"digest"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("news.yahoo.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("news.yahoo.timeout", "10s")
	v.SetDefault("news.rss.feeds", []map[string]any{
		{"name": "MarketWatch", "url": "https://feeds.marketwatch.com/marketwatch/topstories/"},
		{"name": "Yahoo Finance", "url": "https://finance.yahoo.com/rss/"},
	})
	v.SetDefault("news.rss.timeout", "10s")
	v.SetDefault("fetch.max_articles", 10)
	v.SetDefault("fetch.min_articles", 1)
	v.SetDefault("fetch.article_ttl", "1h")
	v.SetDefault("fetch.max_content_chars", 2000)
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("digest.ttl", "24h")
	v.SetDefault("digest.languages", []string{"ko", "en"})
	v.SetDefault("digest.max_bullets", 10)
	v.SetDefault("digest.excerpt_chars", 500)
	v.SetDefault("quota.backend", "redis")
	v.SetDefault("quota.daily_limit", 5)
	v.SetDefault("quota.timezone", "Asia/Seoul")
	v.SetDefault("search.rate_per_minute", 30)
	v.SetDefault("search.rate_burst", 30)
	v.SetDefault("auth.issuer", "finaily")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.digest_cleanup", "@every 24h")
	v.SetDefault("cron.quota_cleanup", "@every 24h")
	v.SetDefault("retention.digest", "168h")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
