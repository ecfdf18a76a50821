package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Engine   EngineConfig
	Ai       AIConfig
	Keys     TopicNames
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	NatsEnabled        bool
	RedisURL           string
	SessionStore       string // "memory" | "redis"
}

type DatabaseConfig struct {
	Connection string
}

// EngineConfig are the conversation engine tunables
type EngineConfig struct {
	StalenessWindow  int
	FollowUpTokens   int
	StrictThreshold  float64
	RelaxedThreshold float64
	TopK             int
	TopN             int
	ComposeTimeout   time.Duration
	MaxReplyLength   int
	SessionTTL       time.Duration
}

type AIConfig struct {
	EmbeddingProvider string // "ollama"
	OllamaBaseURL     string
	EmbeddingModel    string
	LLMProvider       string // "ollama"
	LLMModel          string
	LLMTimeout        time.Duration
	RetryAttempts     int
	RetryInterval     time.Duration
}

type TopicNames struct {
	EmbedPolicyTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			NatsEnabled:        getEnvAsBool("NATS_ENABLED", false),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Engine: EngineConfig{
			StalenessWindow:  getEnvAsInt("ENGINE_STALENESS_WINDOW", 1),
			FollowUpTokens:   getEnvAsInt("ENGINE_FOLLOWUP_TOKENS", 4),
			StrictThreshold:  getEnvAsFloat("SEARCH_STRICT_THRESHOLD", 0.45),
			RelaxedThreshold: getEnvAsFloat("SEARCH_RELAXED_THRESHOLD", 0.25),
			TopK:             getEnvAsInt("SEARCH_TOP_K", 5),
			TopN:             getEnvAsInt("SEARCH_TOP_N", 15),
			ComposeTimeout:   getEnvAsDuration("COMPOSE_TIMEOUT", 30*time.Second),
			MaxReplyLength:   getEnvAsInt("MAX_REPLY_LENGTH", 2000),
			SessionTTL:       getEnvAsDuration("SESSION_TTL", time.Hour),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			LLMTimeout:        getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			RetryAttempts:     getEnvAsInt("LLM_RETRY_ATTEMPTS", 3),
			RetryInterval:     getEnvAsDuration("LLM_RETRY_INTERVAL", time.Second),
		},
		Keys: TopicNames{
			EmbedPolicyTopic: getEnv("EMBED_POLICY_TOPIC_NAME", "EMBED_POLICY_DOCUMENT"),
		},
	}
}

// Validate rejects unusable configurations at startup instead of letting a
// turn fail later.
func (c *Config) Validate() error {
	if c.Database.Connection == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is required")
	}
	if c.Engine.StalenessWindow < 1 {
		return fmt.Errorf("ENGINE_STALENESS_WINDOW must be at least 1")
	}
	if c.Engine.StrictThreshold <= c.Engine.RelaxedThreshold {
		return fmt.Errorf("SEARCH_STRICT_THRESHOLD (%.2f) must be above SEARCH_RELAXED_THRESHOLD (%.2f)",
			c.Engine.StrictThreshold, c.Engine.RelaxedThreshold)
	}
	if c.Engine.RelaxedThreshold < 0 {
		return fmt.Errorf("SEARCH_RELAXED_THRESHOLD must not be negative")
	}
	if c.Engine.TopK <= 0 || c.Engine.TopN < c.Engine.TopK {
		return fmt.Errorf("SEARCH_TOP_K must be positive and SEARCH_TOP_N at least SEARCH_TOP_K")
	}
	if c.Engine.ComposeTimeout <= 0 {
		return fmt.Errorf("COMPOSE_TIMEOUT must be positive")
	}
	if c.Ai.RetryAttempts <= 0 {
		return fmt.Errorf("LLM_RETRY_ATTEMPTS must be positive")
	}
	switch c.App.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_STORE must be \"memory\" or \"redis\", got %q", c.App.SessionStore)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
