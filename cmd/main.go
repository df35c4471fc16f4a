package main

import (
	"errors"
	"io/fs"
	"os"

	"admission-quiz-service/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		// Local overrides; a missing file is fine.
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			os.Stderr.WriteString("could not load .env: " + err.Error() + "\n")
		}
	}
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
