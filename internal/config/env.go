package config

import (
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env files from the working directory. Variables already
// present in the process environment are never overridden.
func loadEnvFiles() []string {
	var loaded []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	return loaded
}
