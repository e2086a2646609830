package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Normalize NormalizeConfig
	Detect    DetectConfig
	History   HistoryConfig
	LLM       LLMConfig
}

// NormalizeConfig holds text-normalizer thresholds.
type NormalizeConfig struct {
	// MergeThreshold is the line length (in characters) below which a line is
	// treated as a wrapped fragment and merged into the pending buffer.
	MergeThreshold int
}

// DetectConfig holds detector policy knobs. Historical behavior diverged on
// several of these, so they are named options rather than baked-in choices.
type DetectConfig struct {
	// HeaderWindow is how many normalized lines from the top count as the
	// document header when looking for structural metadata (course, faculty).
	HeaderWindow int

	// MinSessionCount is the expected number of scheduled sessions in a term.
	// Schedules with fewer identified session lines are judged "not explicit".
	MinSessionCount int

	// InPersonRatioThreshold is the compliant fraction of in-person sessions.
	// A ratio exactly at the threshold is compliant.
	InPersonRatioThreshold float64

	// CountUnnumberedSessions widens session collection to lines that mention
	// in-person/online tokens without a week/session number.
	CountUnnumberedSessions bool

	// EmailDomain is the institutional email domain detectors look for.
	EmailDomain string
}

// HistoryConfig holds the optional run-history store settings.
type HistoryConfig struct {
	Path string // SQLite file path; empty disables the store
}

// LLMConfig holds fallback-inference configuration.
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Normalize: NormalizeConfig{
			MergeThreshold: getEnvAsInt("MERGE_THRESHOLD", 30),
		},
		Detect: DetectConfig{
			HeaderWindow:            getEnvAsInt("HEADER_WINDOW", 15),
			MinSessionCount:         getEnvAsInt("MIN_SESSION_COUNT", 10),
			InPersonRatioThreshold:  getEnvAsFloat64("INPERSON_RATIO_THRESHOLD", 0.5),
			CountUnnumberedSessions: getEnvAsBool("COUNT_UNNUMBERED_SESSIONS", false),
			EmailDomain:             getEnv("EMAIL_DOMAIN", "cpp.edu"),
		},
		History: HistoryConfig{
			Path: getEnv("HISTORY_DB_PATH", ""),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Normalize.MergeThreshold <= 0 {
		return NewAppError("CONFIG_ERROR", "MERGE_THRESHOLD must be positive", ErrInvalidInput)
	}
	if c.Detect.InPersonRatioThreshold <= 0 || c.Detect.InPersonRatioThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "INPERSON_RATIO_THRESHOLD must be in (0,1]", ErrInvalidInput)
	}
	if c.Detect.HeaderWindow <= 0 {
		return NewAppError("CONFIG_ERROR", "HEADER_WINDOW must be positive", ErrInvalidInput)
	}
	return nil
}
