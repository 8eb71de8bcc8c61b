package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string

	// Remote sync tuning. The guard delay keeps the in-flight window open
	// after a save so the listener's echo of our own write gets suppressed.
	SyncCollection string
	SyncDocument   string
	SyncGuardDelay time.Duration
	SyncSaveLimit  int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),
		SyncCollection:  getEnv("SYNC_COLLECTION", "vinted"),
		SyncDocument:    getEnv("SYNC_DOCUMENT", "conversations"),
		SyncGuardDelay:  time.Duration(getEnvAsInt64("SYNC_GUARD_MS", 500)) * time.Millisecond,
		SyncSaveLimit:   int(getEnvAsInt64("SYNC_SAVE_LIMIT", 30)),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
