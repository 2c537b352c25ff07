// internal/config/config.go

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// HTTPConfig HTTP服务配置
type HTTPConfig struct {
	Host    string `env:"HTTP_HOST"`
	Port    int    `env:"HTTP_PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`
}

// StoreConfig 房间配置存储
type StoreConfig struct {
	Driver    string `env:"STORE_DRIVER" envDefault:"sqlite"` // sqlite/postgres/redis/bolt/memory
	Table     string `env:"STORE_TABLE" envDefault:"virtualroomconfig"`
	Partition string `env:"STORE_PARTITION" envDefault:"Demo"`

	SQLitePath    string `env:"SQLITE_PATH" envDefault:"virtualroom.db"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	BoltPath      string `env:"BOLT_PATH" envDefault:"virtualroom.bolt"`
}

// MQTTConfig 状态推送配置，Broker为空时不启用
type MQTTConfig struct {
	Broker      string `env:"MQTT_BROKER"`
	ClientID    string `env:"MQTT_CLIENT_ID" envDefault:"virtualroom"`
	Username    string `env:"MQTT_USERNAME"`
	Password    string `env:"MQTT_PASSWORD"`
	TopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"virtualroom"`
	QoS         byte   `env:"MQTT_QOS" envDefault:"0"`
}

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTP     HTTPConfig
	Store    StoreConfig
	MQTT     MQTTConfig
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Store.Partition == "" {
		return nil, fmt.Errorf("STORE_PARTITION must not be empty")
	}
	if cfg.Store.Table == "" {
		return nil, fmt.Errorf("STORE_TABLE must not be empty")
	}
	if cfg.MQTT.QoS > 2 {
		return nil, fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", cfg.MQTT.QoS)
	}
	return cfg, nil
}

// Addr 监听地址
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
