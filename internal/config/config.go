package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"examprep-service/internal/adaptive"
)

type Config struct {
	Port               string
	MongoURI           string
	MongoDatabase      string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RabbitURI          string
	RabbitExchange     string
	AllowOrigins       []string
	BatchBudgetSeconds int
	BatchSize          int
	PolicyFile         string
}

// Load reads the .env file if present and assembles the configuration from
// the environment. MONGO_URI is the only required value.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "6600"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "examprep"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RabbitURI:          os.Getenv("RABBITMQ_URI"),
		RabbitExchange:     os.Getenv("RABBITMQ_EXCHANGE"),
		BatchBudgetSeconds: getEnvInt("QUIZ_BATCH_BUDGET_SECONDS", 1800),
		BatchSize:          getEnvInt("QUIZ_BATCH_SIZE", 25),
		PolicyFile:         os.Getenv("ADAPTIVE_POLICY_FILE"),
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}

	origins := getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	return cfg, nil
}

// LoadPolicy reads a YAML promotion policy from path, layered over the
// defaults so a partial file only overrides what it names. An empty path
// returns the default policy.
func LoadPolicy(path string) (*adaptive.Policy, error) {
	policy := adaptive.DefaultPolicy()
	if path == "" {
		return policy, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}
	return policy, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
