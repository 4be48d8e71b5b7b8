// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	Server      ServerConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Mongo       MongoConfig
	Dynamo      DynamoConfig
	Database    DatabaseConfig
	Shipping    ShippingConfig
	Images      ImagesConfig
	Storage     StorageConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
	Seed        SeedConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type JWTConfig struct {
	SecretKey string
	TTLHours  int
}

// AdminAccount is one entry of the statically configured admin table.
type AdminAccount struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
}

type AuthConfig struct {
	Accounts        []AdminAccount
	CookieName      string
	MaxFailedLogins int
	LockoutMinutes  int
}

type MongoConfig struct {
	URI             string
	Database        string
	UseTransactions bool
	ConnectTimeout  int
}

type DynamoConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	OrdersTable     string
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type ShippingConfig struct {
	BaseURL        string
	Email          string
	Password       string
	TokenTTLHours  int
	TimeoutSeconds int
}

type ImagesConfig struct {
	AllowedHosts []string
}

// StorageConfig is the S3 bucket product images are uploaded to. Uploads are
// disabled when Bucket is empty.
type StorageConfig struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	MaxUploadMB     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig holds per-client token buckets for the API.
type RateLimitConfig struct {
	GeneralPerSecond int
	GeneralBurst     int
	AuthPerMinute    int
	AuthBurst        int
}

type LogConfig struct {
	Level  string
	Format string
}

type SeedConfig struct {
	SampleData bool
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	accounts, err := ParseAdminAccounts(getEnv("ADMIN_ACCOUNTS", ""))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", defaultJWTSecret),
			TTLHours:  getEnvAsInt("JWT_TTL_HOURS", 168), // 7 days
		},
		Auth: AuthConfig{
			Accounts:        accounts,
			CookieName:      getEnv("AUTH_COOKIE_NAME", "auth-token"),
			MaxFailedLogins: getEnvAsInt("AUTH_MAX_FAILED_LOGINS", 5),
			LockoutMinutes:  getEnvAsInt("AUTH_LOCKOUT_MINUTES", 15),
		},
		Mongo: MongoConfig{
			URI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:        getEnv("MONGO_DATABASE", "storefront"),
			UseTransactions: getEnvAsBool("MONGO_USE_TRANSACTIONS", true),
			ConnectTimeout:  getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10),
		},
		Dynamo: DynamoConfig{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			Endpoint:        getEnv("DYNAMODB_ENDPOINT", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			OrdersTable:     getEnv("DYNAMO_ORDERS_TABLE", "Orders"),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "storefront_admin"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Shipping: ShippingConfig{
			BaseURL:        strings.TrimRight(getEnv("SHIPROCKET_BASE_URL", "https://apiv2.shiprocket.in/v1/external"), "/"),
			Email:          getEnv("SHIPROCKET_EMAIL", ""),
			Password:       getEnv("SHIPROCKET_PASSWORD", ""),
			TokenTTLHours:  getEnvAsInt("SHIPROCKET_TOKEN_TTL_HOURS", 216), // tokens live 10 days upstream
			TimeoutSeconds: getEnvAsInt("SHIPROCKET_TIMEOUT", 0),
		},
		Images: ImagesConfig{
			AllowedHosts: getEnvAsList("IMAGE_ALLOWED_HOSTS", []string{
				"res.cloudinary.com",
				"via.placeholder.com",
				"blinglane.com",
				"images.unsplash.com",
			}),
		},
		Storage: StorageConfig{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
			MaxUploadMB:     getEnvAsInt("S3_MAX_UPLOAD_MB", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		RateLimit: RateLimitConfig{
			GeneralPerSecond: getEnvAsInt("RATE_LIMIT_GENERAL_PER_SECOND", 10),
			GeneralBurst:     getEnvAsInt("RATE_LIMIT_GENERAL_BURST", 20),
			AuthPerMinute:    getEnvAsInt("RATE_LIMIT_AUTH_PER_MINUTE", 10),
			AuthBurst:        getEnvAsInt("RATE_LIMIT_AUTH_BURST", 10),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Seed: SeedConfig{
			SampleData: getEnvAsBool("SEED_SAMPLE_DATA", false),
		},
	}

	return config, config.Validate()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}

	if c.JWT.SecretKey == defaultJWTSecret {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if len(c.Auth.Accounts) == 0 {
		return fmt.Errorf("at least one admin account is required in production")
	}

	if c.Shipping.Email == "" || c.Shipping.Password == "" {
		return fmt.Errorf("shipping credentials are required in production")
	}

	if c.Seed.SampleData {
		return fmt.Errorf("sample data seeding is not allowed in production")
	}

	return nil
}

// ParseAdminAccounts reads "id:email:bcryptHash:role" entries separated by ';'.
func ParseAdminAccounts(raw string) ([]AdminAccount, error) {
	var accounts []AdminAccount

	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("invalid admin account entry %q", entry)
		}

		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin account id %q: %w", parts[0], err)
		}
		if parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("admin account %d is missing email or password hash", id)
		}

		role := parts[3]
		if role == "" {
			role = "admin"
		}

		accounts = append(accounts, AdminAccount{
			ID:           id,
			Email:        parts[1],
			PasswordHash: parts[2],
			Role:         role,
		})
	}

	return accounts, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
