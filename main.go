package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wordforge/go-server/internal/httpserver"
	"github.com/wordforge/go-server/internal/room"
	"github.com/wordforge/go-server/internal/words"
	"os"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	log.Info().Int("words", words.Count()).Msg("dictionary loaded")

	hub := httpserver.NewHub()
	engine := room.NewEngine(room.NewRegistry(), words.Dictionary(), hub)
	srv := httpserver.New(hub, engine)

	port := getEnv("PORT", "3000")
	log.Info().Str("port", port).Msg("starting go-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
