package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	VRF       VRFConfig
	Paygate   PaygateConfig
	Engine    EngineConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
	// InMemory switches the repositories to the in-memory store; no
	// Mongo connection is made. Intended for local development.
	InMemory bool
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// VRFConfig holds the randomness oracle configuration
type VRFConfig struct {
	BaseURL          string
	APIKey           string
	KeyHash          string
	Confirmations    uint16
	CallbackGasLimit uint32
	// CallbackToken authenticates inbound fulfilment callbacks.
	CallbackToken string
	Mock          bool
}

// PaygateConfig holds the payment gateway configuration
type PaygateConfig struct {
	BaseURL string
	APIKey  string
	Mock    bool
}

// EngineConfig seeds the engine settings on first start. Later changes
// go through the admin API and live in the settings store.
type EngineConfig struct {
	TicketPrice       int64
	TicketThreshold   int64
	FeeSplitPercent   int64
	FeeReceiver1      string
	FeeReceiver2      string
	VRFSubscriptionID string
}

// RateLimitConfig holds the public endpoint rate limit configuration
type RateLimitConfig struct {
	Enabled       bool
	Limit         int64
	WindowSeconds int
}

// AdminConfig seeds the privileged accounts on first start.
type AdminConfig struct {
	Email             string
	Password          string
	AuthorityEmail    string
	AuthorityPassword string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; environment variables suffice.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedOrigins", []string{"*"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "letterdraw")
	viper.SetDefault("MongoDB.InMemory", false)
	viper.SetDefault("Redis.Enabled", false)
	viper.SetDefault("Redis.Addr", "localhost:6379")
	viper.SetDefault("Redis.DB", 0)
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("VRF.Mock", true)
	viper.SetDefault("VRF.Confirmations", 3)
	viper.SetDefault("VRF.CallbackGasLimit", 500000)
	viper.SetDefault("Paygate.Mock", true)
	viper.SetDefault("Engine.TicketPrice", 100)
	viper.SetDefault("Engine.TicketThreshold", 50)
	viper.SetDefault("Engine.FeeSplitPercent", 50)
	viper.SetDefault("Engine.FeeReceiver1", "operations")
	viper.SetDefault("Engine.FeeReceiver2", "treasury")
	viper.SetDefault("Engine.VRFSubscriptionID", "1")
	viper.SetDefault("RateLimit.Enabled", false)
	viper.SetDefault("RateLimit.Limit", 30)
	viper.SetDefault("RateLimit.WindowSeconds", 60)
	viper.SetDefault("Admin.Email", "admin@letterdraw.local")
	viper.SetDefault("Admin.AuthorityEmail", "authority@letterdraw.local")
	viper.SetDefault("LogLevel", "info")
}
