package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Session SessionConfig
	Render  RenderConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	BodyLimit int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SessionConfig struct {
	CookieName string
	Expiration time.Duration
}

type RenderConfig struct {
	DPI         float64
	JPEGQuality int
}

// Load reads the given env files (or ./.env when none are given) and builds
// the configuration from the process environment.
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "8501"),
			Env:       getEnv("ENV", "development"),
			BodyLimit: getEnvAsInt("BODY_LIMIT", 200<<20),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", "")),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "ats_session"),
			Expiration: getEnvAsDuration("SESSION_EXPIRATION", "1h"),
		},
		Render: RenderConfig{
			DPI:         getEnvAsFloat("RENDER_DPI", 200),
			JPEGQuality: getEnvAsInt("JPEG_QUALITY", 75),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
