package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string

	JWTSecret string

	RedisURL string

	// VAPID keypair identifying this server to browser push services.
	// Generate with cmd/vapidgen. Dispatch is disabled when empty.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// VAPIDSubscriber is the contact address sent with every push request
	// (mailto: is added by the transport library).
	VAPIDSubscriber string

	// PushTTL is how long (seconds) the push service may queue an
	// undelivered notification before dropping it.
	PushTTL int
	// PushTimeout bounds each in-process delivery call.
	PushTimeout time.Duration

	// CleanupRetentionDays is how long inactive subscriptions are retained
	// before the periodic cleanup deletes them.
	CleanupRetentionDays int

	WorkerCount int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	vapidSubscriber := os.Getenv("VAPID_SUBSCRIBER")
	if vapidSubscriber == "" {
		vapidSubscriber = "admin@pulsegram.app"
	}

	pushTTL, err := strconv.Atoi(os.Getenv("PUSH_TTL"))
	if err != nil || pushTTL <= 0 {
		pushTTL = 86400
	}

	pushTimeoutSec, err := strconv.Atoi(os.Getenv("PUSH_TIMEOUT"))
	if err != nil || pushTimeoutSec <= 0 {
		pushTimeoutSec = 10
	}

	retentionDays, err := strconv.Atoi(os.Getenv("CLEANUP_RETENTION_DAYS"))
	if err != nil || retentionDays <= 0 {
		retentionDays = 30
	}

	workerCount, err := strconv.Atoi(os.Getenv("WORKER_COUNT"))
	if err != nil || workerCount <= 0 {
		workerCount = 2
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		ServerPort: serverPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisURL: redisURL,

		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubscriber: vapidSubscriber,

		PushTTL:     pushTTL,
		PushTimeout: time.Duration(pushTimeoutSec) * time.Second,

		CleanupRetentionDays: retentionDays,

		WorkerCount: workerCount,
	}, nil
}
