package utils

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Session    SessionConfig
	Cloudinary CloudinaryConfig
	Storage    StorageConfig
	Ticket     TicketConfig
	Redis      RedisConfig
	Email      EmailConfig
	Broker     BrokerConfig
	RateLimit  RateLimitConfig
	Scheduler  SchedulerConfig
}

type AppConfig struct {
	Name                  string
	Port                  string
	Debug                 bool
	LogPath               string
	AllowedOrigins        []string
	RequestTimeoutSeconds int
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type SessionConfig struct {
	Secret       string
	ExpiryHours  int
	CookieSecure bool
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled reports whether all Cloudinary credentials are present.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type StorageConfig struct {
	LocalDir  string
	PublicURL string
}

type TicketConfig struct {
	LogoURL                  string
	ImageFetchTimeoutSeconds int
	Timezone                 string
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type BrokerConfig struct {
	URL   string
	Queue string
}

type RateLimitConfig struct {
	AuthPerMinute int
	AuthBurst     int
}

type SchedulerConfig struct {
	SessionCleanupCron string
}

const defaultLogoURL = "https://res.cloudinary.com/dj5udxse6/image/upload/v1738162706/logo.webp"

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "cinema-pegasus")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("SESSION_COOKIE_SECURE", false)
	viper.SetDefault("CLOUDINARY_FOLDER", "pdf_biglietti")
	viper.SetDefault("STORAGE_LOCAL_DIR", "storage/pdf")
	viper.SetDefault("STORAGE_PUBLIC_URL", "http://localhost:8080/files")
	viper.SetDefault("TICKET_LOGO_URL", defaultLogoURL)
	viper.SetDefault("IMAGE_FETCH_TIMEOUT_SECONDS", 10)
	viper.SetDefault("TICKET_TIMEZONE", "Europe/Rome")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("RABBITMQ_QUEUE", "order.events")
	viper.SetDefault("AUTH_RATE_PER_MINUTE", 10)
	viper.SetDefault("AUTH_RATE_BURST", 5)
	viper.SetDefault("SESSION_CLEANUP_CRON", "0 3 * * *")

	// .env is optional, the environment wins anyway
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:                  viper.GetString("APP_NAME"),
			Port:                  viper.GetString("PORT"),
			Debug:                 viper.GetBool("DEBUG"),
			LogPath:               viper.GetString("LOG_PATH"),
			AllowedOrigins:        splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			RequestTimeoutSeconds: viper.GetInt("REQUEST_TIMEOUT_SECONDS"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Session: SessionConfig{
			Secret:       viper.GetString("SESSION_SECRET"),
			ExpiryHours:  viper.GetInt("SESSION_EXPIRY_HOURS"),
			CookieSecure: viper.GetBool("SESSION_COOKIE_SECURE"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: viper.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    viper.GetString("CLOUDINARY_API_KEY"),
			APISecret: viper.GetString("CLOUDINARY_API_SECRET"),
			Folder:    viper.GetString("CLOUDINARY_FOLDER"),
		},
		Storage: StorageConfig{
			LocalDir:  viper.GetString("STORAGE_LOCAL_DIR"),
			PublicURL: viper.GetString("STORAGE_PUBLIC_URL"),
		},
		Ticket: TicketConfig{
			LogoURL:                  viper.GetString("TICKET_LOGO_URL"),
			ImageFetchTimeoutSeconds: viper.GetInt("IMAGE_FETCH_TIMEOUT_SECONDS"),
			Timezone:                 viper.GetString("TICKET_TIMEZONE"),
		},
		Redis: RedisConfig{
			Addr:       viper.GetString("REDIS_ADDR"),
			Password:   viper.GetString("REDIS_PASSWORD"),
			DB:         viper.GetInt("REDIS_DB"),
			TTLSeconds: viper.GetInt("CACHE_TTL_SECONDS"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Broker: BrokerConfig{
			URL:   viper.GetString("RABBITMQ_URL"),
			Queue: viper.GetString("RABBITMQ_QUEUE"),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: viper.GetInt("AUTH_RATE_PER_MINUTE"),
			AuthBurst:     viper.GetInt("AUTH_RATE_BURST"),
		},
		Scheduler: SchedulerConfig{
			SessionCleanupCron: viper.GetString("SESSION_CLEANUP_CRON"),
		},
	}

	if config.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
