package config

import "os"

type ServiceConfig struct {
	Name    string
	Port    string
	Address string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RabbitConfig struct {
	URI      string
	Exchange string
}

type ConsulConfig struct {
	Address string
}

type Config struct {
	Service        ServiceConfig
	Mongo          MongoConfig
	Rabbit         RabbitConfig
	Consul         ConsulConfig
	AllowedOrigins string
}

// Load reads configuration from the environment with local-dev defaults.
func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "mastery-service"),
			Port:    getEnv("PORT", "8085"),
			Address: getEnv("SERVICE_ADDRESS", "localhost"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "mastery"),
		},
		Rabbit: RabbitConfig{
			URI:      getEnv("RABBITMQ_URI", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "learning.events"),
		},
		Consul: ConsulConfig{
			Address: getEnv("CONSUL_ADDRESS", ""),
		},
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
