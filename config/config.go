package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

type Configs struct {
	Env      string `toml:"env" envconfig:"ENV"`
	LogLevel int    `toml:"log_level" envconfig:"LOG_LEVEL"`

	Database DatabaseConfigs `toml:"database"`
	Redis    RedisConfigs    `toml:"redis"`
	Kafka    KafkaConfigs    `toml:"kafka"`
	Game     GameConfigs     `toml:"game"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host" envconfig:"DB_HOST"`
	Port     string `toml:"port" envconfig:"DB_PORT"`
	Database string `toml:"database" envconfig:"DB_DATABASE"`
	User     string `toml:"user" envconfig:"DB_USER"`
	Password string `toml:"password" envconfig:"DB_PASSWORD"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string `toml:"addr" envconfig:"REDIS_ADDR"`
}

type KafkaConfigs struct {
	Addr string `toml:"addr" envconfig:"KAFKA_ADDR"`

	// EventTopic is where the engine publishes gamification events for the
	// notification service.
	EventTopic string `toml:"event_topic" envconfig:"KAFKA_EVENT_TOPIC"`

	// StatTopic is the stat-update feed reported by the other services.
	StatTopic string `toml:"stat_topic" envconfig:"KAFKA_STAT_TOPIC"`
}

type GameConfigs struct {
	// BaseLevelPoints is the cost of reaching level 2 from level 1. Every
	// next level costs LevelGrowthRate times more.
	BaseLevelPoints int     `toml:"base_level_points" envconfig:"GAME_BASE_LEVEL_POINTS"`
	LevelGrowthRate float64 `toml:"level_growth_rate" envconfig:"GAME_LEVEL_GROWTH_RATE"`

	ChallengeExpiryInterval time.Duration `toml:"challenge_expiry_interval" envconfig:"GAME_CHALLENGE_EXPIRY_INTERVAL"`
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: 1,
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "tangohub",
			User:     "root",
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{
			Addr:       "localhost:9092",
			EventTopic: "gamification-events",
			StatTopic:  "user-stats",
		},
		Game: GameConfigs{
			BaseLevelPoints:         100,
			LevelGrowthRate:         1.2,
			ChallengeExpiryInterval: time.Hour,
		},
	}
}

// Load starts from defaults, applies the TOML file at path if it exists,
// then applies environment overrides on top.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Configs{}, fmt.Errorf("cannot process environment configs: %w", err)
	}

	return cfg, nil
}
