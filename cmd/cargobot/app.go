package main

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/MargianaLogistics/CargoBot/config"
	"github.com/MargianaLogistics/CargoBot/internal/backend"
	"github.com/MargianaLogistics/CargoBot/internal/backend/fake"
	"github.com/MargianaLogistics/CargoBot/internal/backend/pgstore"
	"github.com/MargianaLogistics/CargoBot/internal/backend/resthttp"
	"github.com/MargianaLogistics/CargoBot/internal/bot"
	"github.com/MargianaLogistics/CargoBot/internal/broker/kafka"
	"github.com/MargianaLogistics/CargoBot/internal/cache/rediscache"
	"github.com/MargianaLogistics/CargoBot/internal/registry"
	"github.com/MargianaLogistics/CargoBot/internal/services/dispatcher"
)

const (
	defaultTimezone     = "Asia/Ashgabat"
	defaultTopic        = "record.changed"
	defaultInterval     = 300 * time.Second
	defaultInitialDelay = 10 * time.Second
	defaultConcurrency  = 4
	defaultSendDelay    = 50 * time.Millisecond
	defaultRatePerMin   = 120
	defaultReportTTL    = 60 * time.Second
)

// botFactories позволяет подменять инфраструктуру в тестах.
type botFactories struct {
	newBackend     func(cfg *config.Config) (backend.Client, func(), error)
	newTelegram    func(cfg *config.Config) (*tele.Bot, error)
	newProducer    func(cfg *config.Config) dispatcher.Producer
	newRateLimiter func(cfg *config.Config) dispatcher.RateLimiter
	newCache       func(cfg *config.Config) bot.ReportCache
}

func defaultBotFactories() botFactories {
	return botFactories{
		newBackend: func(cfg *config.Config) (backend.Client, func(), error) {
			switch cfg.Backend.Mode {
			case "rest":
				return resthttp.New(cfg.Backend.BaseURL, cfg.Backend.APIKey), nil, nil
			case "postgres":
				sslMode := cfg.Database.SSLMode
				if sslMode == "" {
					sslMode = "disable"
				}
				connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
					cfg.Database.Username,
					cfg.Database.Password,
					cfg.Database.Host,
					cfg.Database.Port,
					cfg.Database.DBName,
					sslMode,
				)
				st, err := pgstore.New(connString)
				if err != nil {
					return nil, nil, err
				}
				return st, st.Close, nil
			default:
				// Демо-режим: встроенные данные, бот поднимается без офисной базы.
				return fake.Demo(time.Now()), nil, nil
			}
		},
		newTelegram: func(cfg *config.Config) (*tele.Bot, error) {
			return tele.NewBot(tele.Settings{
				Token:  cfg.Telegram.Token,
				Poller: &tele.LongPoller{Timeout: 10 * time.Second},
			})
		},
		newProducer: func(cfg *config.Config) dispatcher.Producer {
			brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
			return kafka.NewProducer(brokers)
		},
		newRateLimiter: func(cfg *config.Config) dispatcher.RateLimiter {
			return rediscache.NewRateLimiter(fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port))
		},
		newCache: func(cfg *config.Config) bot.ReportCache {
			return rediscache.New(fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port))
		},
	}
}

// RunCargoBot собирает бота, диспетчер рассылки и сервисный HTTP и крутит их
// до отмены контекста либо первой фатальной ошибки.
func RunCargoBot(ctx context.Context, cfg *config.Config, f botFactories) error {
	tzName := cfg.CargoBot.Timezone
	if tzName == "" {
		tzName = defaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tzName, err)
	}

	topic := cfg.Kafka.RecordChangedTopicName
	if topic == "" {
		topic = defaultTopic
	}

	interval := time.Duration(cfg.CargoBot.DispatchIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}
	initialDelay := time.Duration(cfg.CargoBot.DispatchInitialDelaySeconds) * time.Second
	if initialDelay <= 0 {
		initialDelay = defaultInitialDelay
	}
	concurrency := cfg.CargoBot.DeliveryConcurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	sendDelay := time.Duration(cfg.CargoBot.DeliveryDelayMillis) * time.Millisecond
	if sendDelay <= 0 {
		sendDelay = defaultSendDelay
	}
	ratePerMin := int64(cfg.CargoBot.DeliveryRateLimitPerMinute)
	if ratePerMin <= 0 {
		ratePerMin = defaultRatePerMin
	}
	reportTTL := time.Duration(cfg.CargoBot.ReportCacheTTLSeconds) * time.Second
	if reportTTL <= 0 {
		reportTTL = defaultReportTTL
	}

	client, closeBackend, err := f.newBackend(cfg)
	if err != nil {
		return fmt.Errorf("office backend: %w", err)
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	tb, err := f.newTelegram(cfg)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	subs := registry.New(cfg.Telegram.AdminChatIDs...)
	sender := bot.NewSender(tb)

	disp := dispatcher.New(client, sender, subs, loc).
		WithSettings(interval, initialDelay, concurrency, sendDelay, ratePerMin).
		WithThreshold(cfg.CargoBot.UrgentDaysThreshold).
		WithFeed(f.newProducer(cfg), topic).
		WithRateLimiter(f.newRateLimiter(cfg))

	tgbot := bot.New(tb, client, disp, subs, loc).
		WithAdmins(cfg.Telegram.AdminChatIDs).
		WithThreshold(cfg.CargoBot.UrgentDaysThreshold).
		WithReportCache(f.newCache(cfg), rediscache.ReportKey, reportTTL)
	tgbot.Setup()

	dispErr := make(chan error, 1)
	go func() {
		dispErr <- disp.Run(ctx)
	}()

	botErr := make(chan error, 1)
	go func() {
		botErr <- tgbot.Run(ctx)
	}()

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- runOpsServer(ctx, opsServerOpts{
			httpAddr: cfg.CargoBot.HTTPAddr,
			disp:     disp,
			subs:     subs,
			client:   client,
			cfg:      cfg,
		})
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-dispErr:
		return err
	case err := <-botErr:
		return err
	case err := <-httpErr:
		return err
	}
}
