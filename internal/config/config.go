package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Assistant AssistantConfig
	News      NewsConfig
	Extract   ExtractConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI    string
	Anthropic string
	NewsAPI   string
}

type AIConfig struct {
	LLMProvider   string // "ollama", "openai" or "anthropic"
	LLMModel      string
	LLMBaseURL    string
	OllamaBaseURL string
}

type AssistantConfig struct {
	RequireLogin        bool
	OfflineFallback     bool
	ThinkingCountdown   int
	NoticeDebounce      time.Duration
	RevealInterval      time.Duration
	RevealMaxSteps      int
	RequestTimeout      time.Duration
	SessionTTL          time.Duration
	SubmitRatePerMinute int
	SubmitBurst         int
}

type NewsConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

type ExtractConfig struct {
	ImageURL    string
	DocumentURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/ws.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:    getEnv("OPENAI_API_KEY", ""),
			Anthropic: getEnv("ANTHROPIC_API_KEY", ""),
			NewsAPI:   getEnv("NEWS_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Assistant: AssistantConfig{
			RequireLogin:        getEnvAsBool("REQUIRE_LOGIN", false),
			OfflineFallback:     getEnvAsBool("CHAT_OFFLINE_FALLBACK", true),
			ThinkingCountdown:   getEnvAsInt("THINKING_COUNTDOWN", 0),
			NoticeDebounce:      getEnvAsDuration("NOTICE_DEBOUNCE", 5*time.Second),
			RevealInterval:      getEnvAsDuration("REVEAL_INTERVAL", 20*time.Millisecond),
			RevealMaxSteps:      getEnvAsInt("REVEAL_MAX_STEPS", 400),
			RequestTimeout:      getEnvAsDuration("REQUEST_TIMEOUT", 2*time.Minute),
			SessionTTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SubmitRatePerMinute: getEnvAsInt("SUBMIT_RATE_PER_MINUTE", 30),
			SubmitBurst:         getEnvAsInt("SUBMIT_BURST", 5),
		},
		News: NewsConfig{
			BaseURL:  getEnv("NEWS_API_BASE_URL", "https://newsapi.org/v2"),
			CacheTTL: getEnvAsDuration("NEWS_CACHE_TTL", 10*time.Minute),
		},
		Extract: ExtractConfig{
			ImageURL:    getEnv("IMAGE_EXTRACT_URL", "http://localhost:5001/api/extract-text"),
			DocumentURL: getEnv("DOCUMENT_EXTRACT_URL", "http://localhost:5001/api/extract-pdf"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
