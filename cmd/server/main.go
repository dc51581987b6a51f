package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"notes-vault/internal/config"
	"notes-vault/internal/logger"
	"notes-vault/internal/server"
)

const defaultConfigFile = "config.yml"

func main() {
	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// .env не обязателен: переменные могут прийти из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		boot.Warn().Err(err).Msg("failed to load .env")
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}

	// Загружаем конфигурацию из файла
	appConfig, err := config.InitConfig[config.Config](configFile)
	if err != nil {
		boot.Fatal().Err(err).Str("file", configFile).Msg("error initializing config")
	}
	appConfig.SetDefaults()

	log := logger.New(appConfig.Logger)

	srv, err := server.NewServer(appConfig, configFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}
	if err := srv.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	// Канал для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := srv.Start()

	// Ожидание сигнала или ошибки
	select {
	case err := <-errChan:
		log.Error().Err(err).Msg("server error")
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received signal")
	}

	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown finished with error")
		os.Exit(1)
	}

	log.Info().Msg("notes vault stopped")
}
