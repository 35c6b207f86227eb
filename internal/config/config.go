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
	Cron      CronConfig      `mapstructure:"cron"`
	Quote     QuoteConfig     `mapstructure:"quote"`
	Logo      LogoConfig      `mapstructure:"logo"`
	Reddit    RedditConfig    `mapstructure:"reddit"`
	Microblog MicroblogConfig `mapstructure:"microblog"`
	News      NewsConfig      `mapstructure:"news"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
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
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Refresh string `mapstructure:"refresh"`
}

// QuoteConfig configures the quote/autocomplete/chart provider.
type QuoteConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Range   string        `mapstructure:"range"`
}

type LogoConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedditConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	UserAgent  string        `mapstructure:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Subreddits []string      `mapstructure:"subreddits"`
	Lookback   string        `mapstructure:"lookback"`
}

type MicroblogConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	BearerToken string        `mapstructure:"bearer_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Lang        string        `mapstructure:"lang"`
	MaxResults  int           `mapstructure:"max_results"`
}

type NewsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Filter  string        `mapstructure:"filter"`
}

type IngestConfig struct {
	StageTimeout time.Duration `mapstructure:"stage_timeout"`
	BarWindow    int           `mapstructure:"bar_window"`
	CoalesceTTL  time.Duration `mapstructure:"coalesce_ttl"`
	SearchLimit  int           `mapstructure:"search_limit"`
	// RefreshMaxAge limits the scheduled refresh to tickers whose last
	// successful run is older than this; zero refreshes everything.
	RefreshMaxAge time.Duration `mapstructure:"refresh_max_age"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SP")
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
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.refresh", "0 0 6 * * *")
	v.SetDefault("quote.base_url", "https://yh-finance.p.rapidapi.com")
	v.SetDefault("quote.timeout", "15s")
	v.SetDefault("quote.range", "2y")
	v.SetDefault("logo.base_url", "https://autocomplete.clearbit.com")
	v.SetDefault("logo.timeout", "10s")
	v.SetDefault("reddit.base_url", "https://www.reddit.com")
	v.SetDefault("reddit.user_agent", "stockpulse/0.1")
	v.SetDefault("reddit.timeout", "15s")
	v.SetDefault("reddit.subreddits", []string{"wallstreetbets", "stocks"})
	v.SetDefault("reddit.lookback", "week")
	v.SetDefault("microblog.base_url", "https://api.twitter.com")
	v.SetDefault("microblog.timeout", "15s")
	v.SetDefault("microblog.lang", "en")
	v.SetDefault("microblog.max_results", 100)
	v.SetDefault("news.base_url", "https://news.google.com")
	v.SetDefault("news.timeout", "15s")
	v.SetDefault("news.filter", "week")
	v.SetDefault("ingest.stage_timeout", "30s")
	v.SetDefault("ingest.bar_window", 252)
	v.SetDefault("ingest.coalesce_ttl", "1m")
	v.SetDefault("ingest.search_limit", 10)
	v.SetDefault("ingest.refresh_max_age", "20h")

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
