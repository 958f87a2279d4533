package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address"`
	SwaggerDir      string        `yaml:"swagger_dir"`
	Mode            string        `yaml:"mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Name          string `yaml:"name"`
	SSLMode       string `yaml:"ssl_mode"`
	MaxConns      int32  `yaml:"max_conns"`
	RunMigrations bool   `yaml:"run_migrations"`

	// URL overrides the discrete fields when set.
	URL string `yaml:"url"`
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	BcryptCost      int           `yaml:"bcrypt_cost"`
	LoginRatePerMin int           `yaml:"login_rate_per_minute"`
	LoginRateBurst  int           `yaml:"login_rate_burst"`
}

type BookingConfig struct {
	FlightsCacheTTL int `yaml:"flights_cache_ttl_seconds"`
	SeatLockSeconds int `yaml:"seat_lock_seconds"`
}

type WorkerConfig struct {
	CompletionSweepMinutes int `yaml:"completion_sweep_minutes"`
	PublishRetries         int `yaml:"publish_retries"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			Mode:            "release",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			Host:          "localhost",
			Port:          5432,
			SSLMode:       "disable",
			MaxConns:      10,
			RunMigrations: true,
		},
		Auth: AuthConfig{
			TokenTTL:        24 * time.Hour,
			BcryptCost:      10,
			LoginRatePerMin: 10,
			LoginRateBurst:  5,
		},
		Booking: BookingConfig{FlightsCacheTTL: 60, SeatLockSeconds: 30},
		Worker:  WorkerConfig{CompletionSweepMinutes: 10, PublishRetries: 3},
	}
}

// applyEnv lets deployments keep secrets out of the yaml file.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("HTTP_ADDRESS"); ok {
		cfg.HTTP.Address = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		cfg.Database.URL = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.Redis.Addr = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.Auth.JWTSecret = v
	}
}
