package config

import (
	"authlink-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "authlink"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		SMTP: SMTP{
			Host:        utils.GetEnvString("SMTP_HOST", ""),
			Port:        utils.GetEnvInt("SMTP_PORT", 587),
			Username:    utils.GetEnvString("SMTP_USERNAME", ""),
			Password:    utils.GetEnvString("SMTP_PASSWORD", ""),
			EmailSender: utils.GetEnvString("SMTP_EMAIL_SENDER", ""),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", "development"),
			Port:                     utils.GetEnvString("APP_PORT", ":8080"),
			Version:                  utils.GetEnvString("APP_VERSION", "v1"),
			EndpointPrefix:           utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			Issuer:                   utils.GetEnvString("APP_ISSUER", "http://localhost:8080"),
			MaxRequests:              utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
		},
		MagicLink: MagicLink{
			ResetLifetimeMinutes:       utils.GetEnvInt("MAGICLINK_RESET_LIFETIME_IN_MINUTES", 30),
			EmailChangeLifetimeMinutes: utils.GetEnvInt("MAGICLINK_EMAIL_CHANGE_LIFETIME_IN_MINUTES", 60),
			NewUserLifetimeMinutes:     utils.GetEnvInt("MAGICLINK_NEW_USER_LIFETIME_IN_MINUTES", 4320),
			CookieBindingEnforced:      utils.GetEnvBool("MAGICLINK_COOKIE_BINDING_ENFORCED", true),
			RequestMaxPerWindow:        utils.GetEnvInt("MAGICLINK_REQUEST_MAX_PER_WINDOW", 3),
			RequestWindowSeconds:       utils.GetEnvInt("MAGICLINK_REQUEST_WINDOW_IN_SECONDS", 900),
		},
		Mailer: Mailer{
			QueueSize:               utils.GetEnvInt("MAILER_QUEUE_SIZE", 16),
			EnqueueTimeoutInSeconds: utils.GetEnvInt("MAILER_ENQUEUE_TIMEOUT_IN_SECONDS", 10),
			MaxSendsPerSecond:       utils.GetEnvInt("MAILER_MAX_SENDS_PER_SECOND", 0),
			TestMode:                utils.GetEnvBool("MAILER_TEST_MODE", false),
		},
	}
}
