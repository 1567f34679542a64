package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MargianaLogistics/CargoBot/config"
)

func main() {
	// .env удобен при локальном запуске; в проде всё приходит из окружения.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}
	if err := cfg.ApplyEnv(); err != nil {
		panic(err)
	}
	if cfg.Telegram.Token == "" {
		panic("telegram token is required (telegram.token or TELEGRAM_BOT_TOKEN)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := RunCargoBot(ctx, cfg, defaultBotFactories()); err != nil && err != context.Canceled {
		panic(err)
	}
}
