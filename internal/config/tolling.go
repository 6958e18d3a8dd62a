package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// TollingConfig holds the operational knobs for passage ingest. It is kept
// separate from Config because operators tune it at runtime without a restart.
type TollingConfig struct {
	RateLimit PassageRateLimit `mapstructure:"rateLimit"`
}

// PassageRateLimit configures the redis-backed limiter and the per
// plate/segment lock that serializes concurrent passage reports.
type PassageRateLimit struct {
	Enabled        bool    `mapstructure:"enabled"`
	RedisAddr      string  `mapstructure:"redisAddr"`
	RedisPassword  string  `mapstructure:"redisPassword"`
	RedisDB        int     `mapstructure:"redisDB"`
	PlateRate      float64 `mapstructure:"plateRate"`
	PlateBurst     int     `mapstructure:"plateBurst"`
	LockTTLSeconds int     `mapstructure:"lockTTLSeconds"`
}

func DefaultTollingConfig() TollingConfig {
	return TollingConfig{
		RateLimit: PassageRateLimit{
			Enabled:        false,
			RedisAddr:      "localhost:6379",
			PlateRate:      2,
			PlateBurst:     5,
			LockTTLSeconds: 10,
		},
	}
}

type TollingConfigHolder struct {
	current atomic.Value // holds TollingConfig
}

func NewTollingConfigHolder() (*TollingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("tolling")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/tollgrid")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TOLLGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultTollingConfig()
	v.SetDefault("tolling.rateLimit", defaults.RateLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg TollingConfig
	if err := v.UnmarshalKey("tolling", &cfg); err != nil {
		return nil, err
	}
	if err := validateTollingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &TollingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated TollingConfig
		if err := v.UnmarshalKey("tolling", &updated); err != nil {
			log.Printf("[tolling-config] reload failed: %v", err)
			return
		}
		if err := validateTollingConfig(updated); err != nil {
			log.Printf("[tolling-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[tolling-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *TollingConfigHolder) Get() TollingConfig {
	return h.current.Load().(TollingConfig)
}

func validateTollingConfig(cfg TollingConfig) error {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.RateLimit.RedisAddr) == "" {
		return errors.New("tolling.rateLimit.redisAddr cannot be empty")
	}
	if cfg.RateLimit.PlateRate <= 0 || cfg.RateLimit.PlateBurst <= 0 {
		return errors.New("tolling.rateLimit plate rate and burst must be positive")
	}
	if cfg.RateLimit.LockTTLSeconds <= 0 {
		return errors.New("tolling.rateLimit.lockTTLSeconds must be positive")
	}
	return nil
}
