package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Daraja    DarajaConfig
	Firebase  FirebaseConfig
	Storage   StorageConfig
	Photo     PhotoConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type DatabaseConfig struct {
	Driver          string // mysql | postgres
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

// DarajaConfig for M-Pesa STK push via the Safaricom Daraja API.
type DarajaConfig struct {
	Gateway        string // daraja | stub
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string // public URL of POST /api/v1/payments/callback
	Timeout        time.Duration
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

type StorageConfig struct {
	Type string // cloudinary | s3

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3BaseURL   string
}

type PhotoConfig struct {
	MaxSizeMB int64
	Folder    string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads .env (if present) and the process environment on top of defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env: %v", err)
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8099"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 40*time.Second),
			CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "mysql"),
			DSN:             getEnv("DB_DSN", "venus:venus@tcp(localhost:3306)/venus?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_SECRET", "change-me-in-production"),
			AccessExpiry: getEnvDuration("JWT_EXPIRY", 24*time.Hour),
			Issuer:       getEnv("JWT_ISSUER", "venus"),
		},
		Daraja: DarajaConfig{
			Gateway:        getEnv("PAYMENT_GATEWAY", "daraja"),
			BaseURL:        getEnv("DARAJA_BASE_URL", "https://sandbox.safaricom.co.ke"),
			ConsumerKey:    getEnv("DARAJA_CONSUMER_KEY", ""),
			ConsumerSecret: getEnv("DARAJA_CONSUMER_SECRET", ""),
			ShortCode:      getEnv("DARAJA_SHORT_CODE", "174379"),
			Passkey:        getEnv("DARAJA_PASSKEY", ""),
			CallbackURL:    getEnv("DARAJA_CALLBACK_URL", "https://localhost:8099/api/v1/payments/callback"),
			Timeout:        getEnvDuration("DARAJA_TIMEOUT", 30*time.Second),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		},
		Storage: StorageConfig{
			Type:                getEnv("STORAGE_TYPE", "cloudinary"),
			CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			S3Endpoint:          getEnv("S3_ENDPOINT", ""),
			S3Region:            getEnv("S3_REGION", "us-east-1"),
			S3Bucket:            getEnv("S3_BUCKET", "venus-photos"),
			S3AccessKey:         getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:         getEnv("S3_SECRET_KEY", ""),
			S3BaseURL:           getEnv("S3_BASE_URL", ""),
		},
		Photo: PhotoConfig{
			MaxSizeMB: int64(getEnvInt("PHOTO_MAX_MB", 10)),
			Folder:    getEnv("PHOTO_FOLDER", "venus/photos"),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT", 100),
			Window:   getEnvDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		},
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
