package config

import "time"

// Timeout constants
const (
	// HTTP timeouts
	DefaultHTTPTimeout    = 60 * time.Second
	GrammarRequestTimeout = 10 * time.Second
	AIRequestTimeout      = 45 * time.Second
	ServerShutdownTimeout = 30 * time.Second

	// Database timeouts
	DatabaseConnMaxLifetime = 5 * time.Minute

	// Generation retry
	GenerationRetryDelay = 1 * time.Second

	// Cache
	ReadingCacheTTL = 24 * time.Hour
)

// Server and database defaults
const (
	DefaultServerPort   = "8080"
	DefaultLogLevel     = "info"
	DefaultServiceName  = "lexiquiz-backend"
	DefaultMaxOpenConns = 25
	DefaultMaxIdleConns = 5
)

// Grammar checker defaults
const (
	DefaultGrammarURL          = "https://api.languagetool.org/v2/check"
	DefaultGrammarLanguage     = "en-US"
	DefaultGrammarDisabledRule = "UPPERCASE_SENTENCE_START"
	DefaultGrammarLevel        = "picky"
)

// Reading generation defaults
const (
	DefaultGenerationURL      = "https://api.groq.com/openai/v1/chat/completions"
	DefaultGenerationModel    = "llama3-70b-8192"
	DefaultGenerationAttempts = 2
)

// Game defaults
const (
	DefaultQuizMinPool     = 4
	DefaultDistractorCount = 3
)

// Cache defaults
const (
	DefaultRedisKeyPrefix = "lexiquiz:"
)

// Security configuration constants
const (
	// Content Security Policy
	DefaultCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:;"
)
