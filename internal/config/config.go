// Package config provides configuration for taskpilot.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the taskpilot configuration.
type Config struct {
	// Server settings
	HTTPPort int `yaml:"http_port"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// LLM backend (OpenAI-compatible)
	LLMBaseURL string        `yaml:"llm_base_url"`
	LLMAPIKey  string        `yaml:"llm_api_key"`
	LLMModel   string        `yaml:"llm_model"`
	LLMTimeout time.Duration `yaml:"-"`

	// Planner budgets
	MaxPlanSteps       int  `yaml:"max_plan_steps"`
	DisableLLMPlanning bool `yaml:"disable_llm_planning"`

	// Policy
	EnforceConfirmation bool `yaml:"enforce_confirmation"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Load builds configuration from environment variables, optionally overlaid
// by a YAML file named in TASKPILOT_CONFIG.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:         getEnv("DATABASE_URL", "file:taskpilot.db?cache=shared&mode=rwc"),
		LLMBaseURL:          getEnv("LLM_BASE_URL", "http://localhost:4000"),
		LLMAPIKey:           getEnv("LLM_API_KEY", ""),
		LLMModel:            getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		MaxPlanSteps:        getEnvInt("MAX_PLAN_STEPS", 5),
		DisableLLMPlanning:  getEnvBool("DISABLE_LLM_PLANNING", false),
		EnforceConfirmation: getEnvBool("ENFORCE_CONFIRMATION", false),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if path := os.Getenv("TASKPILOT_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
