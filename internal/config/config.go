package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Cron       CronConfig       `mapstructure:"cron"`
	Stats      StatsConfig      `mapstructure:"stats"`
	Betting    BettingConfig    `mapstructure:"betting"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Live       LiveConfig       `mapstructure:"live"`
	Auth       AuthConfig       `mapstructure:"auth"`
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

type CronConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ResultUpdate   string `mapstructure:"result_update"`
	SummaryRebuild string `mapstructure:"summary_rebuild"`
}

// StatsConfig covers the external stats provider. Retry policy lives here, at
// the collaborator boundary; settlement logic never retries on its own.
type StatsConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	LiveBaseURL  string        `mapstructure:"live_base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryCount   int           `mapstructure:"retry_count"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	TeamCacheTTL time.Duration `mapstructure:"team_cache_ttl"`
}

type BettingConfig struct {
	StartingBankroll float64 `mapstructure:"starting_bankroll"`
}

type SettlementConfig struct {
	// LookbackDays is how far a recent-results pass reaches back.
	LookbackDays int `mapstructure:"lookback_days"`
	// VoidAfterDays is the grace period before a bet missing from a fetched
	// result set is voided as a DNP. Same-day absence never voids.
	VoidAfterDays int `mapstructure:"void_after_days"`
}

type LiveConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	AvgMinutes     float64       `mapstructure:"avg_minutes"`
	StreamInterval time.Duration `mapstructure:"stream_interval"`
	Timezone       string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PNL")
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
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.result_update", "0 0 9 * * *")
	v.SetDefault("cron.summary_rebuild", "0 30 9 * * *")
	v.SetDefault("stats.base_url", "https://stats.nba.com")
	v.SetDefault("stats.live_base_url", "https://cdn.nba.com/static/json/liveData")
	v.SetDefault("stats.timeout", "2m")
	v.SetDefault("stats.retry_count", 2)
	v.SetDefault("stats.retry_backoff", "2s")
	v.SetDefault("stats.team_cache_ttl", "6h")
	v.SetDefault("betting.starting_bankroll", 100.0)
	v.SetDefault("settlement.lookback_days", 3)
	v.SetDefault("settlement.void_after_days", 1)
	v.SetDefault("live.enabled", true)
	v.SetDefault("live.avg_minutes", 34.0)
	v.SetDefault("live.stream_interval", "30s")
	v.SetDefault("live.timezone", "America/New_York")
	v.SetDefault("auth.api_key", "")

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
