package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Store    StoreConfig    `envPrefix:"STORE_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	FCM      FCMConfig      `envPrefix:"FCM_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

// StoreConfig selects the realtime store backend. "firebase" talks to the
// hosted database over REST, "mongo" keeps records in a local collection,
// "memory" is for tests and dry runs.
type StoreConfig struct {
	Backend   string `env:"BACKEND" envDefault:"firebase"`
	BaseURL   string `env:"BASE_URL"`
	AuthToken string `env:"AUTH_TOKEN"`
}

type DatabaseConfig struct {
	URI        string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database   string `env:"DATABASE" envDefault:"community"`
	Collection string `env:"COLLECTION" envDefault:"store"`
}

type AuthConfig struct {
	BaseURL string `env:"BASE_URL"`
	APIKey  string `env:"API_KEY"`
}

type FCMConfig struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"https://fcm.googleapis.com/fcm/send"`
	ServerKey string `env:"SERVER_KEY"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"store-events"`
	GroupID string   `env:"GROUP_ID" envDefault:"community-worker"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
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
