// Package config holds the explicit runtime configuration passed to the
// pipeline controller. There are no package-level defaults consulted at
// runtime; everything flows through the Config value built in main.
package config

import (
	"fmt"
	"os"
	"time"
)

// Backend names for the embedding and language model services.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

// Config carries every tunable of the ingestion and query pipeline.
type Config struct {
	// Vector index
	QdrantHost string
	QdrantPort int
	Collection string

	// Conversation log
	HistoryPath string

	// Model backend: BackendOllama or BackendOpenAI
	Backend    string
	OllamaHost string // empty means OLLAMA_HOST / default
	ChatModel  string // empty means the backend default
	EmbedModel string // empty means the backend default

	// Pipeline parameters
	ChunkSize    int
	ChunkOverlap int
	TopK         int

	// Per-call timeouts for external services
	EmbedTimeout     time.Duration
	SynthesisTimeout time.Duration

	// Serve mode
	Port string
}

// FromEnv builds a Config from environment variables with defaults.
//
//	QDRANT_HOST        Qdrant hostname          (default: localhost)
//	QDRANT_PORT        Qdrant gRPC port         (default: 6334)
//	COLLECTION         Qdrant collection name   (default: research_assistant)
//	HISTORY_PATH       history file location    (default: history.json)
//	MODEL_BACKEND      ollama or openai         (default: ollama)
//	OLLAMA_HOST        Ollama base URL          (default: library default)
//	CHAT_MODEL         chat model override
//	EMBED_MODEL        embedding model override
//	TOP_K              retrieval depth          (default: 5)
//	PORT               serve mode HTTP port     (default: 8080)
func FromEnv() Config {
	return Config{
		QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:       getEnvInt("QDRANT_PORT", 6334),
		Collection:       getEnv("COLLECTION", "research_assistant"),
		HistoryPath:      getEnv("HISTORY_PATH", "history.json"),
		Backend:          getEnv("MODEL_BACKEND", BackendOllama),
		OllamaHost:       getEnv("OLLAMA_HOST", ""),
		ChatModel:        getEnv("CHAT_MODEL", ""),
		EmbedModel:       getEnv("EMBED_MODEL", ""),
		ChunkSize:        getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 200),
		TopK:             getEnvInt("TOP_K", 5),
		EmbedTimeout:     getEnvDuration("EMBED_TIMEOUT", 2*time.Minute),
		SynthesisTimeout: getEnvDuration("SYNTHESIS_TIMEOUT", 2*time.Minute),
		Port:             getEnv("PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
