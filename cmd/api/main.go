package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env chỉ dùng cho local; production dùng system environment
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	if err := Serve(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
}
