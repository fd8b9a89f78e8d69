package app

import (
	"strings"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/utils"
)

// Config holds all process-wide settings, assembled once at startup and
// passed to the components that need it.
type Config struct {
	AppName     string
	Version     string
	Environment string
	LogMode     string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string

	CORSAllowOrigins []string
	Port             string
}

func LoadConfig(log *logger.Logger) Config {
	corsOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "*", log)
	origins := []string{}
	for _, o := range strings.Split(corsOrigins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return Config{
		AppName:          utils.GetEnv("APP_NAME", "Flowlog", log),
		Version:          utils.GetEnv("APP_VERSION", "0.1.0", log),
		Environment:      utils.GetEnv("ENVIRONMENT", "development", log),
		LogMode:          utils.GetEnv("LOG_MODE", "development", log),
		PostgresHost:     utils.GetEnv("POSTGRES_HOST", "localhost", log),
		PostgresPort:     utils.GetEnv("POSTGRES_PORT", "5432", log),
		PostgresUser:     utils.GetEnv("POSTGRES_USER", "postgres", log),
		PostgresPassword: utils.GetEnv("POSTGRES_PASSWORD", "", log),
		PostgresName:     utils.GetEnv("POSTGRES_NAME", "flowlog", log),
		CORSAllowOrigins: origins,
		Port:             utils.GetEnv("PORT", "8080", log),
	}
}
