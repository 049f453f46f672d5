package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

const (
	DefaultPort            = "8080"
	DefaultDBDriver        = "sqlite3"
	DefaultDBPath          = "budzet.db"
	DefaultPayloadMaxSize  = "12mb"
	DefaultRateLimitMax    = 30
	DefaultRateLimitWindow = time.Minute
	DefaultAIProvider      = "openai"
	DefaultOpenAIModel     = "gpt-4.1-mini"
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultAITemperature   = 0.4
	DefaultAIMaxTokens     = 700
	DefaultAITimeout       = 12 * time.Second
	DefaultPromptVersion   = "2026-02-10.v1"
)

type Config struct {
	Port     string
	DBDriver string // "sqlite3", "mysql" or "memory"
	DBPath   string // sqlite3 database file
	DBDSN    string // mysql DSN, required when DBDriver is "mysql"

	PayloadMaxSize  string
	PayloadMaxBytes int64
	RateLimitMax    int
	RateLimitWindow time.Duration

	AIProvider    string // "openai" or "gemini"
	OpenAIKey     string
	OpenAIModel   string
	GeminiKey     string
	GeminiModel   string
	AITemperature float64
	AIMaxTokens   int
	AITimeout     time.Duration
	PromptVersion string
}

// Load reads the configuration from the environment (an optional .env
// file is loaded first) and collects every problem it finds instead of
// stopping at the first one.
func Load() (*Config, error) {
	_ = gotenv.Load() // .env file is optional

	cfg := &Config{
		Port:            envOr("APP_PORT", DefaultPort),
		DBDriver:        strings.ToLower(envOr("DB_DRIVER", DefaultDBDriver)),
		DBPath:          envOr("DB_PATH", DefaultDBPath),
		DBDSN:           os.Getenv("FULL_DSN"),
		PayloadMaxSize:  envOr("API_PAYLOAD_MAX_SIZE", DefaultPayloadMaxSize),
		AIProvider:      strings.ToLower(envOr("AI_PROVIDER", DefaultAIProvider)),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOr("OPENAI_MODEL", DefaultOpenAIModel),
		GeminiKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     envOr("GEMINI_MODEL", DefaultGeminiModel),
		PromptVersion:   envOr("PROMPT_VERSION", DefaultPromptVersion),
		RateLimitMax:    DefaultRateLimitMax,
		RateLimitWindow: DefaultRateLimitWindow,
		AITemperature:   DefaultAITemperature,
		AIMaxTokens:     DefaultAIMaxTokens,
		AITimeout:       DefaultAITimeout,
	}

	var issues []string

	bytes, err := ParsePayloadLimit(cfg.PayloadMaxSize)
	if err != nil {
		issues = append(issues, fmt.Sprintf("API_PAYLOAD_MAX_SIZE has an invalid format (%s), use values like 2mb or 512kb", cfg.PayloadMaxSize))
	}
	cfg.PayloadMaxBytes = bytes

	if raw := os.Getenv("API_RATE_LIMIT_MAX"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			issues = append(issues, "API_RATE_LIMIT_MAX must be a positive number")
		} else {
			cfg.RateLimitMax = n
		}
	}

	if raw := os.Getenv("API_RATE_LIMIT_WINDOW_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			issues = append(issues, "API_RATE_LIMIT_WINDOW_MS must be a positive number")
		} else {
			cfg.RateLimitWindow = time.Duration(ms) * time.Millisecond
		}
	}

	if raw := os.Getenv("AI_MODEL_TEMPERATURE"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 || f > 2 {
			issues = append(issues, "AI_MODEL_TEMPERATURE must be a number between 0 and 2")
		} else {
			cfg.AITemperature = f
		}
	}

	if raw := os.Getenv("AI_MODEL_MAX_TOKENS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			issues = append(issues, "AI_MODEL_MAX_TOKENS must be a positive number")
		} else {
			cfg.AIMaxTokens = n
		}
	}

	if raw := os.Getenv("AI_MODEL_TIMEOUT_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			issues = append(issues, "AI_MODEL_TIMEOUT_MS must be a positive number")
		} else {
			cfg.AITimeout = time.Duration(ms) * time.Millisecond
		}
	}

	switch cfg.DBDriver {
	case "sqlite3", "mysql", "memory":
	default:
		issues = append(issues, fmt.Sprintf("DB_DRIVER must be sqlite3, mysql or memory, got: %s", cfg.DBDriver))
	}
	if cfg.DBDriver == "mysql" && cfg.DBDSN == "" {
		issues = append(issues, "FULL_DSN is required when DB_DRIVER is mysql")
	}

	switch cfg.AIProvider {
	case "openai", "gemini":
	default:
		issues = append(issues, fmt.Sprintf("AI_PROVIDER must be openai or gemini, got: %s", cfg.AIProvider))
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("configuration error: %s", strings.Join(issues, "; "))
	}
	return cfg, nil
}

var payloadLimitRegex = regexp.MustCompile(`^(\d+)(b|kb|mb)?$`)

// ParsePayloadLimit converts values like "12mb", "512kb" or "1024" to a
// byte count. A bare number is taken as bytes.
func ParsePayloadLimit(limit string) (int64, error) {
	normalized := strings.ToLower(strings.TrimSpace(limit))
	match := payloadLimitRegex.FindStringSubmatch(normalized)
	if match == nil {
		return 0, fmt.Errorf("invalid payload limit: %q", limit)
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid payload limit: %q", limit)
	}

	switch match[2] {
	case "kb":
		value *= 1024
	case "mb":
		value *= 1024 * 1024
	}
	return value, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
