package config

import "os"

// GeminiModels defines which Gemini models to use for each task
type GeminiModels struct {
	// Reflect is for one-shot reflection generation on a single observation
	Reflect string `json:"reflect"`

	// Chat is for Q&A grounded on a student's history context
	Chat string `json:"chat"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Models: GeminiModels{
			Reflect: getEnvOrDefault("GEMINI_MODEL_REFLECT", "gemini-2.0-flash"),
			Chat:    getEnvOrDefault("GEMINI_MODEL_CHAT", "gemini-2.0-flash"),
		},
		TimeoutMS: 15000,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
