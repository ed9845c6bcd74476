package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// PlaceholderLLMAPIKey es el valor de ejemplo que trae el .env de muestra; no es una credencial real.
const PlaceholderLLMAPIKey = "your-openai-api-key-here"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort             string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL          string        `env:"DATABASE_URL,required,notEmpty"`
	LLMAPIKey            string        `env:"LLM_API_KEY"`
	LLMBaseURL           string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel             string        `env:"LLM_MODEL" envDefault:"gpt-3.5-turbo"`
	LLMMaxTokens         int           `env:"LLM_MAX_TOKENS" envDefault:"800"`
	LLMTemperature       float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMTimeout           time.Duration `env:"LLM_TIMEOUT" envDefault:"20s"`
	JWTSecret            string        `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int           `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	JWTRefreshTTLMinutes int           `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"10080"`
	RedisAddr            string        `env:"REDIS_ADDR"`
	RedisPassword        string        `env:"REDIS_PASSWORD"`
	RedisDB              int           `env:"REDIS_DB" envDefault:"0"`
	CORSAllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// LLMSettings agrupa lo que el router necesita para hablar con el proveedor externo.
type LLMSettings struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LLM devuelve la configuración del proveedor de generación.
func (c *Config) LLM() LLMSettings {
	return LLMSettings{
		APIKey:      c.LLMAPIKey,
		BaseURL:     c.LLMBaseURL,
		Model:       c.LLMModel,
		MaxTokens:   c.LLMMaxTokens,
		Temperature: c.LLMTemperature,
		Timeout:     c.LLMTimeout,
	}
}

// HasValidCredential indica si hay una API key utilizable (no vacía ni placeholder).
func (s LLMSettings) HasValidCredential() bool {
	return HasValidExternalCredential(s.APIKey)
}

// HasValidExternalCredential es la versión pura del chequeo de credenciales.
func HasValidExternalCredential(apiKey string) bool {
	key := strings.TrimSpace(apiKey)
	return key != "" && key != PlaceholderLLMAPIKey
}
