package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Backend  BackendConfig  `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	CargoBot CargoBotConfig `yaml:"cargobot"`
}

type TelegramConfig struct {
	Token        string  `yaml:"token"`
	AdminChatIDs []int64 `yaml:"admin_chat_ids"`
}

// BackendConfig выбирает источник данных офисной системы.
type BackendConfig struct {
	Mode    string `yaml:"mode"` // "rest" | "postgres" | "fake"
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	RecordChangedTopicName string `yaml:"record_changed_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CargoBotConfig struct {
	Timezone            string `yaml:"timezone"`
	UrgentDaysThreshold int    `yaml:"urgent_days_threshold"`

	DispatchIntervalSeconds     int `yaml:"dispatch_interval_seconds"`
	DispatchInitialDelaySeconds int `yaml:"dispatch_initial_delay_seconds"`
	DeliveryConcurrency         int `yaml:"delivery_concurrency"`
	DeliveryDelayMillis         int `yaml:"delivery_delay_millis"`
	DeliveryRateLimitPerMinute  int `yaml:"delivery_rate_limit_per_minute"`

	ReportCacheTTLSeconds int `yaml:"report_cache_ttl_seconds"`

	HTTPAddr string `yaml:"http_addr"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}

// ApplyEnv накладывает секреты из окружения поверх YAML.
// Пустые переменные не трогают уже загруженные значения.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("SUPABASE_KEY"); v != "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv("ADMIN_CHAT_IDS"); v != "" {
		ids, err := parseChatIDs(v)
		if err != nil {
			return err
		}
		c.Telegram.AdminChatIDs = ids
	}
	return nil
}

func parseChatIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad chat id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
