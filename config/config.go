package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"

	FeedScopeUser   = "user"
	FeedScopeGlobal = "global"
)

type Config struct {
	AppPort string
	AppMode string
	LogMode string

	StorageBackend string
	MongoURI       string
	MongoDB        string
	MongoTimeout   time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	FeedScope string

	StaticDir         string
	StaticS3Bucket    string
	StaticS3Region    string
	StaticS3Endpoint  string
	StaticS3AccessKey string
	StaticS3SecretKey string
	StaticS3Prefix    string

	AuthRateLimit    int
	MessageRateLimit int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		AppMode: getEnv("APP_MODE", "debug"),
		LogMode: getEnv("LOG_MODE", "development"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageMemory)),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGODB_DB", "msgboard"),
		MongoTimeout:   getEnvAsDuration("MONGODB_TIMEOUT", 10*time.Second),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		SessionSecret: getEnv("SESSION_SECRET", "change-me"),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure:  getEnvAsBool("COOKIE_SECURE", false),

		FeedScope: strings.ToLower(getEnv("FEED_SCOPE", FeedScopeUser)),

		StaticDir:         getEnv("STATIC_DIR", "public"),
		StaticS3Bucket:    getEnv("STATIC_S3_BUCKET", ""),
		StaticS3Region:    getEnv("STATIC_S3_REGION", "us-east-1"),
		StaticS3Endpoint:  getEnv("STATIC_S3_ENDPOINT", ""),
		StaticS3AccessKey: getEnv("STATIC_S3_ACCESS_KEY", ""),
		StaticS3SecretKey: getEnv("STATIC_S3_SECRET_KEY", ""),
		StaticS3Prefix:    getEnv("STATIC_S3_PREFIX", ""),

		AuthRateLimit:    getEnvAsInt("AUTH_RATE_LIMIT", 5),
		MessageRateLimit: getEnvAsInt("MESSAGE_RATE_LIMIT", 30),
	}
}

// LoadServerlessConfig is LoadConfig for the function entry point. It forces
// release mode and stores in Mongo unless STORAGE_BACKEND is set explicitly.
func LoadServerlessConfig() *Config {
	cfg := LoadConfig()
	cfg.AppMode = "release"
	if _, ok := os.LookupEnv("STORAGE_BACKEND"); !ok {
		cfg.StorageBackend = StorageMongo
	}
	return cfg
}

// UsesRedis reports whether sessions, rate limits and live events go through Redis.
func (c *Config) UsesRedis() bool {
	return c.StorageBackend == StorageMongo
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return fallback
}
