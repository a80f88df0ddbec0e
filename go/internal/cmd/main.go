package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	loadEnvFile()

	SetVersionInfo(version, commit, date)

	// Errors are printed by the printer package
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnvFile loads .env (or the given files) into the environment. A missing
// file is only a warning.
func loadEnvFile(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}
}
