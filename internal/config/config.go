// Package config resolves server settings. Precedence, lowest first:
// built-in defaults, an optional YAML file, the environment (including a
// .env file), then command-line flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type Config struct {
	DatabaseURL    string        `yaml:"database_url"`
	JWTSecret      string        `yaml:"jwt_secret"`
	Port           string        `yaml:"port"`
	ClientOrigin   string        `yaml:"client_origin"`
	APIBaseURL     string        `yaml:"api_base_url"`
	GRPCPort       string        `yaml:"grpc_port"`
	SetupToken     string        `yaml:"setup_token"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	DBMaxRetries   uint64        `yaml:"db_max_retries"`
	HealthInterval time.Duration `yaml:"health_interval"`
	Memory         bool          `yaml:"memory"`
	S3             S3            `yaml:"s3"`
}

func Defaults() *Config {
	return &Config{
		Port:           "5000",
		APIBaseURL:     "/api",
		LogLevel:       "info",
		LogFormat:      "text",
		DBMaxRetries:   10,
		HealthInterval: 30 * time.Second,
		S3:             S3{Region: "us-east-1"},
	}
}

// Load builds a Config from defaults, the YAML file at path (or $COB_CONFIG
// when path is empty) and the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path == "" {
		path = os.Getenv("COB_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.DatabaseURL = env("DATABASE_URL", c.DatabaseURL)
	c.JWTSecret = env("JWT_SECRET", c.JWTSecret)
	c.Port = env("PORT", c.Port)
	c.ClientOrigin = env("CLIENT_ORIGIN", c.ClientOrigin)
	c.APIBaseURL = env("API_BASE_URL", c.APIBaseURL)
	c.GRPCPort = env("GRPC_PORT", c.GRPCPort)
	c.SetupToken = env("SETUP_TOKEN", c.SetupToken)
	c.LogLevel = env("LOG_LEVEL", c.LogLevel)
	c.LogFormat = env("LOG_FORMAT", c.LogFormat)

	c.S3.Endpoint = env("S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Region = env("S3_REGION", c.S3.Region)
	c.S3.Bucket = env("S3_BUCKET", c.S3.Bucket)
	c.S3.AccessKey = env("S3_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = env("S3_SECRET_KEY", c.S3.SecretKey)

	if v := os.Getenv("DB_MAX_RETRIES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("DB_MAX_RETRIES: %w", err)
		}
		c.DBMaxRetries = n
	}
	if v := os.Getenv("HEALTH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("HEALTH_INTERVAL: %w", err)
		}
		c.HealthInterval = d
	}
	return nil
}

// RegisterFlags adds the overridable settings to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file (env COB_CONFIG)")
	fs.StringP("port", "p", "", "HTTP listen port (env PORT)")
	fs.String("grpc-port", "", "gRPC health listen port, empty disables (env GRPC_PORT)")
	fs.String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	fs.Bool("memory", false, "keep entries in memory instead of PostgreSQL")
}

// ApplyFlags overrides c with every flag the user actually set.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) {
	if fs.Changed("port") {
		c.Port, _ = fs.GetString("port")
	}
	if fs.Changed("grpc-port") {
		c.GRPCPort, _ = fs.GetString("grpc-port")
	}
	if fs.Changed("log-level") {
		c.LogLevel, _ = fs.GetString("log-level")
	}
	if fs.Changed("memory") {
		c.Memory, _ = fs.GetBool("memory")
	}
}

// Warnings lists settings whose absence degrades the service.
func (c *Config) Warnings() []string {
	var w []string
	if c.DatabaseURL == "" && !c.Memory {
		w = append(w, "DATABASE_URL is not set; data requests will fail")
	}
	if c.JWTSecret == "" {
		w = append(w, "JWT_SECRET is not set; login and mutations will fail")
	}
	return w
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
