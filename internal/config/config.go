package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	// Client side
	APIURL          string `mapstructure:"API_URL"`
	RealtimeAppKey  string `mapstructure:"REALTIME_APP_KEY"`
	RealtimeHost    string `mapstructure:"REALTIME_HOST"`
	RealtimePort    string `mapstructure:"REALTIME_PORT"`
	RealtimeUseTLS  bool   `mapstructure:"REALTIME_USE_TLS"`
	RealtimeCluster string `mapstructure:"REALTIME_CLUSTER"`

	// Dev server
	Port          string `mapstructure:"PORT"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	FrontendURL   string `mapstructure:"FRONTEND_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Connection defaults match the local dev stack.
	viper.SetDefault("API_URL", "http://127.0.0.1:8080/api")
	viper.SetDefault("REALTIME_APP_KEY", "lecoursier")
	viper.SetDefault("REALTIME_HOST", "127.0.0.1")
	viper.SetDefault("REALTIME_PORT", "6379")
	viper.SetDefault("REALTIME_USE_TLS", false)
	viper.SetDefault("REALTIME_CLUSTER", "mt1")
	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
