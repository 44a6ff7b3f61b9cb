package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	ClientURL string
	APIURL    string
	AppEnv    string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	SeedSource    string
	RosterMarker  string
	FittingMarker string
}

// LoadConfig reads the process environment once at startup. A .env file in the
// working directory is loaded first but never overrides variables already set.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Port:      getEnv("PORT", "8080"),
		ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),
		APIURL:    getEnv("API_URL", "http://localhost:8080"),
		AppEnv:    getEnv("APP_ENV", "development"),

		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		SQLitePath:  getEnv("SQLITE_PATH", "uniform_tracker.db"),

		SeedSource:    getEnv("SEED_SOURCE", "data"),
		RosterMarker:  getEnv("ROSTER_MARKER", "tech list"),
		FittingMarker: getEnv("FITTING_MARKER", "cintas"),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
