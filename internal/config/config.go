// Package config 统一配置管理
//
// 加载顺序：默认值 → .env → configs/common.yaml → configs/{APP_ENV}.yaml → 环境变量
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/pkg/logging"
)

type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

type Config struct {
	Env      Environment    `yaml:"-"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Log      logging.Config `yaml:"log"`
}

type ServerConfig struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

type DatabaseConfig struct {
	URL          string `yaml:"url"` // sqlite://path | postgres://... | mysql://dsn
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type AuthConfig struct {
	Secret     string        `yaml:"secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	Issuer     string        `yaml:"issuer"`
	OwnerEmail string        `yaml:"owner_email"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled 未配置地址时不启用登出吊销
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type KafkaConfig struct {
	Brokers       []string      `yaml:"brokers"`
	Topic         string        `yaml:"topic"`
	RelayInterval time.Duration `yaml:"relay_interval"`
	RelayBatch    int           `yaml:"relay_batch"`
}

func (k KafkaConfig) Producer() pkg.KafkaConfig {
	return pkg.KafkaConfig{Brokers: k.Brokers, Topic: k.Topic}
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	From     string `yaml:"from"`
	Password string `yaml:"-"`
}

func (s SMTPConfig) Mailer() pkg.SMTPConfig {
	return pkg.SMTPConfig{Host: s.Host, Port: s.Port, Username: s.Username, Password: s.Password, From: s.From}
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
}

// Load 加载配置
func Load() (*Config, error) {
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	env := parseEnv(getEnv("APP_ENV", "dev"))
	cfg := Default()
	cfg.Env = env

	if err := loadYAML(cfg, configPaths, "common.yaml"); err != nil {
		return nil, err
	}
	if err := loadYAML(cfg, configPaths, fmt.Sprintf("%s.yaml", env)); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 开发环境默认值
func Default() *Config {
	return &Config{
		Env:    EnvDevelopment,
		Server: ServerConfig{Port: "8080", CORSOrigin: "*"},
		Database: DatabaseConfig{
			URL:          "sqlite://social.db",
			MaxIdleConns: 10,
			MaxOpenConns: 100,
		},
		Auth: AuthConfig{
			TokenTTL: pkg.DefaultAccessTTL,
			Issuer:   "inkle-social",
		},
		Kafka: KafkaConfig{
			Topic:         "social.activities",
			RelayInterval: time.Second,
			RelayBatch:    200,
		},
		SMTP: SMTPConfig{Port: 587},
		Log:  logging.Config{Level: "info", Format: "text", Output: "stdout"},
	}
}

// loadYAML 找到的第一个文件生效，文件不存在不算错误
func loadYAML(cfg *Config, bases []string, filename string) error {
	for _, base := range bases {
		path := filepath.Join(base, filename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.CORSOrigin = getEnv("CORS_ORIGIN", cfg.Server.CORSOrigin)
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)

	cfg.Auth.Secret = getEnv("JWT_SECRET", cfg.Auth.Secret)
	cfg.Auth.OwnerEmail = getEnv("OWNER_EMAIL", cfg.Auth.OwnerEmail)
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = d
		}
	}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.SMTP.Host = getEnv("SMTP_HOST", cfg.SMTP.Host)
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = n
		}
	}
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", cfg.SMTP.Username)
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", cfg.SMTP.Password)
	cfg.SMTP.From = getEnv("SMTP_FROM", cfg.SMTP.From)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func (c *Config) validate() error {
	if c.Auth.Secret == "" {
		if c.Env == EnvProduction {
			return fmt.Errorf("JWT_SECRET must be set in %s", c.Env)
		}
		c.Auth.Secret = "dev-only-secret-change-me"
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = pkg.DefaultAccessTTL
	}
	if c.Kafka.RelayInterval <= 0 {
		c.Kafka.RelayInterval = time.Second
	}
	if c.Kafka.RelayBatch <= 0 {
		c.Kafka.RelayBatch = 200
	}
	return nil
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String 返回配置摘要（隐藏密码）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Port: %s, DB: %s, Redis: %t, Kafka: %t, SMTP: %t}",
		c.Env, c.Server.Port, maskPassword(c.Database.URL), c.Redis.Enabled(), len(c.Kafka.Brokers) > 0, c.SMTP.Host != "")
}

var passwordPattern = regexp.MustCompile(`(://[^:/@]+:)([^@]+)(@)`)

func maskPassword(url string) string {
	return passwordPattern.ReplaceAllString(url, "${1}***${3}")
}
