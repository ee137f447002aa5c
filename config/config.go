package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBType         string
	PostgresURL    string
	MongoURL       string
	MongoDatabase  string
	DataFile       string
	Port           string
	JWTSecret      string
	TokenHours     int
	PDFSavePath    string
	MigrationsPath string
	ClinicConfig   string
	LogLevel       string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logg.Info("No .env file found, using system environment variables")
	}

	cfg := &Config{
		DBType:         getEnv("DB_TYPE", "file"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		MongoURL:       os.Getenv("MONGO_URL"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "jyotika"),
		DataFile:       getEnv("DATA_FILE", "data/bills.json"),
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "jyotika-clinic-secret"),
		TokenHours:     24,
		PDFSavePath:    getEnv("PDF_SAVE_PATH", "./pdfs"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://db/migrations"),
		ClinicConfig:   getEnv("CLINIC_CONFIG", "config/clinic.toml"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
	if h, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN")); err == nil && h > 0 {
		cfg.TokenHours = h
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
