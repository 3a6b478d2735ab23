package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Indexing IndexingConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	SessionTTLHours    int
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
	EventTopic   string // Topic for session lifecycle events
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "openai"
	LLMModel          string // e.g. "llama3", "gpt-4"
}

type IndexingConfig struct {
	MaxFileSize     int // bytes per file before the file is skipped
	MaxFilesPerRepo int
	ChunkSize       int // characters per chunk window
	ChunkOverlap    int // characters carried between adjacent windows
	AllowedExts     []string
	ExcludedDirs    []string
}

type RagConfig struct {
	MaxContextChunks    int
	SimilarityThreshold float64 // base bar: below this a chunk is discarded
	HighScoreThreshold  float64 // top result must clear this for "high" confidence
	LowScoreMargin      float64 // top result within base+margin is still "low"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			SessionTTLHours:    getEnvAsInt("SESSION_TTL_HOURS", 24),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			EventTopic:   getEnv("SESSION_EVENT_TOPIC_NAME", "SESSION_EVENTS"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Indexing: IndexingConfig{
			MaxFileSize:     getEnvAsInt("MAX_FILE_SIZE", 1000000),
			MaxFilesPerRepo: getEnvAsInt("MAX_FILES_PER_REPO", 1000),
			ChunkSize:       getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:    getEnvAsInt("CHUNK_OVERLAP", 200),
			AllowedExts: getEnvAsSlice("ALLOWED_EXTENSIONS",
				".py,.js,.ts,.jsx,.tsx,.java,.go,.rs,.cpp,.c,.h,.hpp,.cs,.php,.rb,.swift,.md,.txt,.yml,.yaml,.json,.xml,.sql"),
			ExcludedDirs: getEnvAsSlice("EXCLUDED_DIRS",
				"node_modules,.git,dist,build,__pycache__,.pytest_cache,.venv,venv,env,.env,target,bin,obj,.vs,.idea,.vscode"),
		},
		Rag: RagConfig{
			MaxContextChunks:    getEnvAsInt("MAX_CONTEXT_CHUNKS", 12),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.15),
			HighScoreThreshold:  getEnvAsFloat("HIGH_SCORE_THRESHOLD", 0.6),
			LowScoreMargin:      getEnvAsFloat("LOW_SCORE_MARGIN", 0.05),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSlice(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
