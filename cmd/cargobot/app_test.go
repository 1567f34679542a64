package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/MargianaLogistics/CargoBot/config"
	"github.com/MargianaLogistics/CargoBot/internal/backend"
	"github.com/MargianaLogistics/CargoBot/internal/backend/fake"
	"github.com/MargianaLogistics/CargoBot/internal/backend/resthttp"
	"github.com/MargianaLogistics/CargoBot/internal/bot"
	"github.com/MargianaLogistics/CargoBot/internal/registry"
	"github.com/MargianaLogistics/CargoBot/internal/services/dispatcher"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type noopProducer struct{}

func (p noopProducer) Publish(ctx context.Context, topic string, key, value []byte) error { return nil }

// stubPoller не ходит в Telegram и сразу отдаёт управление при остановке.
type stubPoller struct{}

func (stubPoller) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) { <-stop }

func TestDefaultBotFactories_SelectBackend(t *testing.T) {
	f := defaultBotFactories()

	cfgREST := &config.Config{
		Backend: config.BackendConfig{
			Mode:    "rest",
			BaseURL: "http://localhost:3000",
			APIKey:  "k",
		},
	}
	c1, closeFn, err := f.newBackend(cfgREST)
	require.NoError(t, err)
	require.Nil(t, closeFn)
	_, ok := c1.(*resthttp.Client)
	require.True(t, ok)

	c2, _, err := f.newBackend(&config.Config{})
	require.NoError(t, err)
	_, ok = c2.(*fake.Client)
	require.True(t, ok)
}

func TestDefaultBotFactories_ProducerRateLimiterCache_NonNil(t *testing.T) {
	f := defaultBotFactories()
	cfg := &config.Config{
		Kafka: config.KafkaConfig{Host: "localhost", Port: 9092},
		Redis: config.RedisConfig{Host: "localhost", Port: 6379},
	}
	require.NotNil(t, f.newProducer(cfg))
	require.NotNil(t, f.newRateLimiter(cfg))
	require.NotNil(t, f.newCache(cfg))
}

func TestRunCargoBot_ContextCanceled(t *testing.T) {
	calledClose := false

	f := botFactories{
		newBackend: func(cfg *config.Config) (backend.Client, func(), error) {
			return fake.New(), func() { calledClose = true }, nil
		},
		newTelegram: func(cfg *config.Config) (*tele.Bot, error) {
			return tele.NewBot(tele.Settings{Offline: true, Poller: stubPoller{}})
		},
		newProducer: func(cfg *config.Config) dispatcher.Producer {
			return noopProducer{}
		},
		newRateLimiter: func(cfg *config.Config) dispatcher.RateLimiter {
			return nil
		},
		newCache: func(cfg *config.Config) bot.ReportCache {
			return nil
		},
	}

	cfg := &config.Config{
		Kafka: config.KafkaConfig{RecordChangedTopicName: "t"},
		CargoBot: config.CargoBotConfig{
			Timezone: "UTC",
			HTTPAddr: "127.0.0.1:0",
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunCargoBot(ctx, cfg, f)
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, calledClose)
}

func TestRunOpsServer_Endpoints(t *testing.T) {
	client := fake.Demo(time.Now().UTC())
	subs := registry.New(7)
	disp := dispatcher.New(client, nil, subs, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- runOpsServer(ctx, opsServerOpts{
			httpAddr: "127.0.0.1:0",
			onListen: func(addr string) { addrCh <- addr },
			disp:     disp,
			subs:     subs,
			client:   client,
			cfg:      &config.Config{},
		})
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case err := <-srvErr:
		t.Fatalf("ops server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("ops server did not start")
	}

	get := func(path string) (int, []byte) {
		resp, err := http.Get("http://" + addr + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, body
	}

	code, body := get("/healthz")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, `{"status":"ok"}`, string(body))

	code, body = get("/readyz")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, `{"status":"ready"}`, string(body))

	code, body = get("/stats")
	require.Equal(t, http.StatusOK, code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(body, &stats))
	require.Equal(t, float64(1), stats["subscribers"])

	resp, err := http.Post("http://"+addr+"/trigger", "application/json", nil)
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, `{"triggered":true}`, string(body))

	cancel()
	require.ErrorIs(t, <-srvErr, context.Canceled)
}
