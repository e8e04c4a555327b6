package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	UpstreamURL  string
	StoreBackend string // memory | sqlite | redis
	DBDSN        string
	RedisAddr    string
	LogFile      string
}

func Load() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg := Config{
		Port:         getenv("PORT", "8080"),
		UpstreamURL:  getenv("UPSTREAM_URL", "http://localhost:1337"),
		StoreBackend: getenv("STORE_BACKEND", "sqlite"),
		DBDSN:        getenv("DB_DSN", "sneakstore.db"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		LogFile:      getenv("LOG_FILE", ""),
	}
	log.Printf("[config] PORT=%s UPSTREAM_URL=%s STORE_BACKEND=%s DB_DSN=%s",
		cfg.Port, cfg.UpstreamURL, cfg.StoreBackend, cfg.DBDSN)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
