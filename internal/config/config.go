// Package config handles application configuration loading from a YAML file and environment variables.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	contextutils "lexiquiz/internal/utils"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable pointing at the YAML config file.
const ConfigFileEnv = "LEXIQUIZ_CONFIG_FILE"

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig        `json:"server" yaml:"server"`
	Database      DatabaseConfig      `json:"database" yaml:"database"`
	OpenTelemetry OpenTelemetryConfig `json:"open_telemetry" yaml:"open_telemetry"`
	Grammar       GrammarConfig       `json:"grammar" yaml:"grammar"`
	Generation    GenerationConfig    `json:"generation" yaml:"generation"`
	Game          GameConfig          `json:"game" yaml:"game"`
	Redis         RedisConfig         `json:"redis" yaml:"redis"`

	// Internal fields
	IsTest bool `json:"is_test" yaml:"is_test"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port           string        `json:"port" yaml:"port" validate:"required"`
	Debug          bool          `json:"debug" yaml:"debug"`
	LogLevel       string        `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	CORSOrigins    []string      `json:"cors_origins" yaml:"cors_origins"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" validate:"gt=0"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL             string        `json:"url" yaml:"url" validate:"required"`
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns" validate:"gte=0"`       // Maximum number of open connections to the database
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns" validate:"gte=0"`       // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime" validate:"gte=0"` // Maximum amount of time a connection may be reused
}

// OpenTelemetryConfig holds all OpenTelemetry-related configuration
type OpenTelemetryConfig struct {
	Endpoint       string            `json:"endpoint" yaml:"endpoint"`               // Default: "localhost:4317"
	Protocol       string            `json:"protocol" yaml:"protocol"`               // "grpc" or "http", default: "grpc"
	Insecure       bool              `json:"insecure" yaml:"insecure"`               // Default: true (for localhost)
	Headers        map[string]string `json:"headers" yaml:"headers"`                 // For authenticated endpoints
	ServiceName    string            `json:"service_name" yaml:"service_name"`       // Default: "lexiquiz-backend"
	ServiceVersion string            `json:"service_version" yaml:"service_version"` // From version package
	EnableTracing  bool              `json:"enable_tracing" yaml:"enable_tracing"`
	EnableMetrics  bool              `json:"enable_metrics" yaml:"enable_metrics"`
	EnableLogging  bool              `json:"enable_logging" yaml:"enable_logging"`
	UseAutoSDK     bool              `json:"use_auto_sdk" yaml:"use_auto_sdk"`
	SamplingRate   float64           `json:"sampling_rate" yaml:"sampling_rate" validate:"gte=0,lte=1"` // Default: 1.0 (100%)
}

// GrammarConfig configures the LanguageTool client used by the sentence validator
type GrammarConfig struct {
	URL           string        `json:"url" yaml:"url" validate:"required,url"`
	Language      string        `json:"language" yaml:"language" validate:"required"`
	DisabledRules []string      `json:"disabled_rules" yaml:"disabled_rules"`
	Level         string        `json:"level" yaml:"level"`
	Timeout       time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`
}

// GenerationConfig configures the OpenAI-compatible chat completions endpoint
// used to generate reading passages.
type GenerationConfig struct {
	URL         string        `json:"url" yaml:"url" validate:"required,url"`
	APIKey      string        `json:"api_key" yaml:"api_key"`
	Model       string        `json:"model" yaml:"model" validate:"required"`
	MaxAttempts int           `json:"max_attempts" yaml:"max_attempts" validate:"gte=1"`
	RetryDelay  time.Duration `json:"retry_delay" yaml:"retry_delay" validate:"gte=0"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`
}

// GameConfig holds game session tunables
type GameConfig struct {
	QuizMinPool     int `json:"quiz_min_pool" yaml:"quiz_min_pool" validate:"gte=2"`
	DistractorCount int `json:"distractor_count" yaml:"distractor_count" validate:"gte=1"`
}

// RedisConfig configures the optional read-through cache in front of the
// reading content table. An empty Addr disables it.
type RedisConfig struct {
	Addr      string        `json:"addr" yaml:"addr"`
	Password  string        `json:"password" yaml:"password"`
	DB        int           `json:"db" yaml:"db" validate:"gte=0"`
	TTL       time.Duration `json:"ttl" yaml:"ttl" validate:"gte=0"`
	KeyPrefix string        `json:"key_prefix" yaml:"key_prefix"`
}

// Enabled reports whether a Redis address was configured
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

// NewConfig loads configuration from YAML file first, then overrides with environment variables
func NewConfig() (result0 *Config, err error) {
	config, err := loadConfigWithOverrides()
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to load config: %w", err)
	}

	config.overrideFromEnv()
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyDefaults fills zero-valued fields with their defaults
func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultHTTPTimeout
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = DatabaseConnMaxLifetime
	}

	if c.OpenTelemetry.Protocol == "" {
		c.OpenTelemetry.Protocol = "grpc"
	}
	if c.OpenTelemetry.ServiceName == "" {
		c.OpenTelemetry.ServiceName = DefaultServiceName
	}
	if c.OpenTelemetry.SamplingRate == 0 {
		c.OpenTelemetry.SamplingRate = 1.0
	}

	if c.Grammar.URL == "" {
		c.Grammar.URL = DefaultGrammarURL
	}
	if c.Grammar.Language == "" {
		c.Grammar.Language = DefaultGrammarLanguage
	}
	if c.Grammar.DisabledRules == nil {
		c.Grammar.DisabledRules = []string{DefaultGrammarDisabledRule}
	}
	if c.Grammar.Level == "" {
		c.Grammar.Level = DefaultGrammarLevel
	}
	if c.Grammar.Timeout == 0 {
		c.Grammar.Timeout = GrammarRequestTimeout
	}

	if c.Generation.URL == "" {
		c.Generation.URL = DefaultGenerationURL
	}
	if c.Generation.Model == "" {
		c.Generation.Model = DefaultGenerationModel
	}
	if c.Generation.MaxAttempts == 0 {
		c.Generation.MaxAttempts = DefaultGenerationAttempts
	}
	if c.Generation.RetryDelay == 0 {
		c.Generation.RetryDelay = GenerationRetryDelay
	}
	if c.Generation.Timeout == 0 {
		c.Generation.Timeout = AIRequestTimeout
	}

	if c.Game.QuizMinPool == 0 {
		c.Game.QuizMinPool = DefaultQuizMinPool
	}
	if c.Game.DistractorCount == 0 {
		c.Game.DistractorCount = DefaultDistractorCount
	}

	if c.Redis.TTL == 0 {
		c.Redis.TTL = ReadingCacheTTL
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
}

// Validate checks the loaded configuration against its struct tags
func (c *Config) Validate() error {
	if err := contextutils.ValidateStruct(c); err != nil {
		return contextutils.WrapError(contextutils.WithCause(contextutils.ErrValidationFailed, err), "invalid configuration")
	}
	return nil
}

// overrideFromEnv overrides config values with environment variables using reflection
func (c *Config) overrideFromEnv() {
	overrideStructFromEnv(c)
}

// overrideStructFromEnv recursively overrides struct fields with environment variables
func overrideStructFromEnv(v interface{}) {
	overrideStructFromEnvWithPrefix(v, "")
}

var durationType = reflect.TypeOf(time.Duration(0))

// overrideStructFromEnvWithPrefix recursively overrides struct fields with environment variables.
// GRAMMAR_TIMEOUT overrides grammar.timeout, REDIS_ADDR overrides redis.addr and so on.
func overrideStructFromEnvWithPrefix(v interface{}, prefix string) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		yamlTag := strings.Split(fieldType.Tag.Get("yaml"), ",")[0]
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		envKey := strings.ToUpper(strings.ReplaceAll(yamlTag, "-", "_"))
		if prefix != "" {
			envKey = prefix + "_" + envKey
		}

		if field.Type() == durationType {
			if envVal := os.Getenv(envKey); envVal != "" {
				if d, err := time.ParseDuration(envVal); err == nil {
					field.SetInt(int64(d))
				}
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if envVal := os.Getenv(envKey); envVal != "" {
				field.SetString(envVal)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if envVal := os.Getenv(envKey); envVal != "" {
				if intVal, err := strconv.ParseInt(envVal, 10, 64); err == nil {
					field.SetInt(intVal)
				}
			}
		case reflect.Float32, reflect.Float64:
			if envVal := os.Getenv(envKey); envVal != "" {
				if floatVal, err := strconv.ParseFloat(envVal, 64); err == nil {
					field.SetFloat(floatVal)
				}
			}
		case reflect.Bool:
			if envVal := os.Getenv(envKey); envVal != "" {
				if boolVal, err := strconv.ParseBool(envVal); err == nil {
					field.SetBool(boolVal)
				}
			}
		case reflect.Slice:
			if envVal := os.Getenv(envKey); envVal != "" {
				// Comma-separated string slices (CORS origins, disabled rules)
				if field.Type().Elem().Kind() == reflect.String {
					parts := strings.Split(envVal, ",")
					for j := range parts {
						parts[j] = strings.TrimSpace(parts[j])
					}
					field.Set(reflect.ValueOf(parts))
				}
			}
		case reflect.Struct:
			if field.CanAddr() {
				overrideStructFromEnvWithPrefix(field.Addr().Interface(), envKey)
			}
		}
	}
}

// loadConfigWithOverrides loads the config file named by LEXIQUIZ_CONFIG_FILE, or config.yaml
func loadConfigWithOverrides() (result0 *Config, err error) {
	if envPath := os.Getenv(ConfigFileEnv); envPath != "" {
		config, err := loadConfigFromFile(envPath)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to load config from %s: %w", envPath, err)
		}
		return config, nil
	}

	config, err := loadConfigFromFile("config.yaml")
	if os.IsNotExist(err) {
		// Running purely from the environment is allowed
		return &Config{}, nil
	}
	return config, err
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (result0 *Config, err error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
