package main

import (
	"os"
	"strconv"
	"time"
)

// Config is the stateless move service's process configuration, read
// from environment variables via getEnv(key, default) rather than a
// flags or file-based setup.
type Config struct {
	Addr          string
	DefaultDepth  int
	DefaultBudget time.Duration
	PoolSize      int
}

// LoadConfig reads Config from the environment, falling back to
// defaults tuned for a single-box deployment.
func LoadConfig() *Config {
	depth, _ := strconv.Atoi(getEnv("GOMOKU_DEPTH", "8"))
	budgetMS, _ := strconv.Atoi(getEnv("GOMOKU_BUDGET_MS", "2000"))
	poolSize, _ := strconv.Atoi(getEnv("GOMOKU_POOL_SIZE", "0"))

	return &Config{
		Addr:          getEnv("GOMOKU_ADDR", ":8090"),
		DefaultDepth:  depth,
		DefaultBudget: time.Duration(budgetMS) * time.Millisecond,
		PoolSize:      poolSize,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
