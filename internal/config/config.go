package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration shared by the user, task and submission services.
type Config struct {
	Service   string
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Services  ServicesConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Policy    PolicyConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig carries the shared signing secret. PreviousSecrets are accepted for
// verification only so a rotated key does not invalidate live tokens.
type JWTConfig struct {
	Secret          string
	PreviousSecrets []string
	TokenTTL        time.Duration
}

// ServicesConfig locates peer services and bounds calls made to them.
type ServicesConfig struct {
	UserURL       string
	TaskURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// PolicyConfig selects "lenient" (compatible) or "strict" transition rules.
type PolicyConfig struct {
	Task       string
	Submission string
}

var defaultPorts = map[string]string{
	"user":       "8001",
	"task":       "8002",
	"submission": "8003",
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// LoadConfig loads configuration for the named service from environment variables
// and an optional .env file. The port is read from <SERVICE>_SERVICE_PORT, then SERVER_PORT.
func LoadConfig(service string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	portKey := strings.ToUpper(service) + "_SERVICE_PORT"
	v.SetDefault("SERVER_PORT", defaultPorts[service])
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MONGODB_DATABASE", "tasktracker")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_TOKEN_TTL", 1440)
	v.SetDefault("USER_SERVICE_URL", "http://localhost:8001")
	v.SetDefault("TASK_SERVICE_URL", "http://localhost:8002")
	v.SetDefault("RPC_TIMEOUT", 5)
	v.SetDefault("RPC_RETRY_ATTEMPTS", 1)
	v.SetDefault("RPC_RETRY_BACKOFF_MS", 200)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("MINIO_BUCKET", "tasktracker")
	v.SetDefault("TASK_POLICY", "lenient")
	v.SetDefault("SUBMISSION_POLICY", "lenient")

	port := v.GetString(portKey)
	if port == "" {
		port = v.GetString("SERVER_PORT")
	}

	cfg := &Config{
		Service: service,
		Server: ServerConfig{
			Port:            port,
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SERVER_SHUTDOWN_TIMEOUT")) * time.Second,
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:          v.GetString("JWT_SECRET"),
			PreviousSecrets: splitList(v.GetString("JWT_PREVIOUS_SECRETS")),
			TokenTTL:        time.Duration(v.GetInt("JWT_TOKEN_TTL")) * time.Minute,
		},
		Services: ServicesConfig{
			UserURL:       strings.TrimRight(v.GetString("USER_SERVICE_URL"), "/"),
			TaskURL:       strings.TrimRight(v.GetString("TASK_SERVICE_URL"), "/"),
			Timeout:       time.Duration(v.GetInt("RPC_TIMEOUT")) * time.Second,
			RetryAttempts: v.GetInt("RPC_RETRY_ATTEMPTS"),
			RetryBackoff:  time.Duration(v.GetInt("RPC_RETRY_BACKOFF_MS")) * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		Policy: PolicyConfig{
			Task:       strings.ToLower(v.GetString("TASK_POLICY")),
			Submission: strings.ToLower(v.GetString("SUBMISSION_POLICY")),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
