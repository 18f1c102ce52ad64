package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GitHub   GitHubConfig
	Roast    RoastConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

type GitHubConfig struct {
	Token           string
	RequestsPerHour int
	BurstLimit      int
	CacheTTLMinutes int
	UserAgent       string
}

type RoastConfig struct {
	MaxReposToAnalyze int
	MaxCommitsPerRepo int
	MinimumAccountAge int
	EnableEasterEggs  bool
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./roastivator.db"),
		},
		GitHub: GitHubConfig{
			Token:           getEnv("GITHUB_TOKEN", ""),
			RequestsPerHour: getEnvAsInt("GITHUB_REQUESTS_PER_HOUR", 60),
			BurstLimit:      getEnvAsInt("GITHUB_BURST_LIMIT", 10),
			CacheTTLMinutes: getEnvAsInt("CACHE_TTL_MINUTES", 5),
			UserAgent:       getEnv("GITHUB_USER_AGENT", "Roastivator-App"),
		},
		Roast: RoastConfig{
			MaxReposToAnalyze: getEnvAsInt("ROAST_MAX_REPOS", 30),
			MaxCommitsPerRepo: getEnvAsInt("ROAST_MAX_COMMITS_PER_REPO", 10),
			MinimumAccountAge: getEnvAsInt("ROAST_MIN_ACCOUNT_AGE", 0),
			EnableEasterEggs:  getEnvAsBool("ROAST_ENABLE_EASTER_EGGS", true),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
