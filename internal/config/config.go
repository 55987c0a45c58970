package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SenderConfig holds the organization details stamped onto every rendered
// document. Process-wide and read-only at render time.
type SenderConfig struct {
	CompanyName   string
	Address       string
	Email         string
	Phone         string
	BankName      string
	AccountName   string
	AccountNumber string
	BankBranch    string
	PaymentTerms  string
	LogoPath      string
}

// ConverterConfig holds settings for the optional office-suite converter
// subprocess. An empty Command disables conversion entirely and renders
// are delivered in their native editable format.
type ConverterConfig struct {
	Command    string
	TimeoutSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Sender    SenderConfig
	Converter ConverterConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Sender: SenderConfig{
			CompanyName:   getEnv("SENDER_COMPANY_NAME", ""),
			Address:       getEnv("SENDER_ADDRESS", ""),
			Email:         getEnv("SENDER_EMAIL", ""),
			Phone:         getEnv("SENDER_PHONE", ""),
			BankName:      getEnv("SENDER_BANK_NAME", ""),
			AccountName:   getEnv("SENDER_ACCOUNT_NAME", ""),
			AccountNumber: getEnv("SENDER_ACCOUNT_NUMBER", ""),
			BankBranch:    getEnv("SENDER_BANK_BRANCH", ""),
			PaymentTerms:  getEnv("SENDER_PAYMENT_TERMS", "50% advance, balance on delivery"),
			LogoPath:      getEnv("SENDER_LOGO_PATH", ""),
		},
		Converter: ConverterConfig{
			Command:    getEnv("CONVERTER_COMMAND", "soffice"),
			TimeoutSec: getEnvInt("CONVERTER_TIMEOUT_SEC", 30),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
