package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	RenderModeBasic    = "basic"
	RenderModeDetailed = "detailed"

	ArchiveMemory   = "memory"
	ArchivePostgres = "postgres"
)

type Config struct {
	Env      string
	Server   ServerConfig
	Backend  BackendConfig
	Upload   UploadConfig
	Session  SessionConfig
	Render   RenderConfig
	Archive  string
	Database DatabaseConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
}

type BackendConfig struct {
	BaseURL      string
	Timeout      time.Duration
	TrainTimeout time.Duration
}

type UploadConfig struct {
	MaxBytes          int
	AllowedExtensions []string
}

type SessionConfig struct {
	Secret     string
	Issuer     string
	TTL        time.Duration
	CookieName string
}

type RenderConfig struct {
	Mode           string
	CurrencySymbol string
	Locale         string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// ClientConfig - часть конфигурации, нужная CLI без веб-сервера.
type ClientConfig struct {
	Backend BackendConfig
	Upload  UploadConfig
	Render  RenderConfig
}

// Load загружает конфигурацию консоли из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	// Запись ответа ждет бэкенд, поэтому таймаут больше, чем у чтения.
	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	rateLimitPerMinute, err := parseIntEnv("RATE_LIMIT_PER_MINUTE", 30)
	if err != nil {
		return cfg, err
	}

	rateLimitBurst, err := parseIntEnv("RATE_LIMIT_BURST", 10)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:               getEnv("SERVER_HOST", "0.0.0.0"),
		Port:               serverPort,
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		IdleTimeout:        idleTimeout,
		RateLimitPerMinute: rateLimitPerMinute,
		RateLimitBurst:     rateLimitBurst,
	}

	client, err := loadClient()
	if err != nil {
		return cfg, err
	}
	cfg.Backend = client.Backend
	cfg.Upload = client.Upload
	cfg.Render = client.Render

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return cfg, err
	}

	cfg.Session = SessionConfig{
		Secret:     getEnv("SESSION_SECRET", ""),
		Issuer:     getEnv("SESSION_ISSUER", "capacity-console"),
		TTL:        sessionTTL,
		CookieName: getEnv("SESSION_COOKIE", "console_session"),
	}

	cfg.Archive = strings.ToLower(getEnv("ARCHIVE_BACKEND", ArchiveMemory))

	dbPort, err := parseIntEnv("DB_PORT", 5432)
	if err != nil {
		return cfg, err
	}

	maxOpenConns, err := parseIntEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return cfg, err
	}

	maxIdleConns, err := parseIntEnv("DB_MAX_IDLE_CONNS", 2)
	if err != nil {
		return cfg, err
	}

	connMaxIdleTime, err := parseDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return cfg, err
	}

	connMaxLifetime, err := parseDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return cfg, err
	}

	cfg.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "planner"),
		Password:        getEnv("DB_PASSWORD", "planner"),
		Name:            getEnv("DB_NAME", "capacity_console"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxIdleTime: connMaxIdleTime,
		ConnMaxLifetime: connMaxLifetime,
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadClient загружает настройки бэкенда и отображения для CLI.
func LoadClient() (ClientConfig, error) {
	if err := loadEnv(); err != nil {
		return ClientConfig{}, err
	}

	cfg, err := loadClient()
	if err != nil {
		return cfg, err
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadClient() (ClientConfig, error) {
	cfg := ClientConfig{}

	backendTimeout, err := parseDurationEnv("BACKEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return cfg, err
	}

	trainTimeout, err := parseDurationEnv("BACKEND_TRAIN_TIMEOUT", 10*time.Minute)
	if err != nil {
		return cfg, err
	}

	cfg.Backend = BackendConfig{
		BaseURL:      strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:5000"), "/"),
		Timeout:      backendTimeout,
		TrainTimeout: trainTimeout,
	}

	maxBytes, err := parseIntEnv("UPLOAD_MAX_BYTES", 16<<20)
	if err != nil {
		return cfg, err
	}

	extensions := parseCSVEnv("UPLOAD_ALLOWED_EXTENSIONS")
	if extensions == nil {
		extensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "xlsx", "xls"}
	}

	cfg.Upload = UploadConfig{
		MaxBytes:          maxBytes,
		AllowedExtensions: extensions,
	}

	cfg.Render = RenderConfig{
		Mode:           strings.ToLower(getEnv("RENDER_MODE", RenderModeDetailed)),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "¥"),
		Locale:         getEnv("RENDER_LOCALE", "zh-CN"),
	}

	return cfg, nil
}

// DSN возвращает строку подключения к базе данных.
func (c DatabaseConfig) DSN() string {
	user := url.UserPassword(c.User, c.Password)
	dsn := url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	return dsn.String() + "?" + query.Encode()
}

func (c ClientConfig) validate() error {
	parsed, err := url.Parse(c.Backend.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute url")
	}

	switch c.Render.Mode {
	case RenderModeBasic, RenderModeDetailed:
	default:
		return fmt.Errorf("RENDER_MODE must be %q or %q", RenderModeBasic, RenderModeDetailed)
	}

	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("UPLOAD_ALLOWED_EXTENSIONS cannot be empty")
	}

	return nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	client := ClientConfig{Backend: c.Backend, Upload: c.Upload, Render: c.Render}
	if err := client.validate(); err != nil {
		return err
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE cannot be empty")
	}

	switch c.Archive {
	case ArchiveMemory:
	case ArchivePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}

		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required")
		}

		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}

		if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
			return fmt.Errorf("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS")
		}
	default:
		return fmt.Errorf("ARCHIVE_BACKEND must be %q or %q", ArchiveMemory, ArchivePostgres)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseCSVEnv(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), ".")))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
