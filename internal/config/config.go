// Package config предоставляет структуры и функции для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	PaymentsAPI     `yaml:"payments_api"`
	Effects         `yaml:"effects"`
	RedisConnection `yaml:"redis_connection"`
	RabbitMQ        `yaml:"rabbitmq"`
}

// HTTPServer структура для настройки сервера консоли
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// PaymentsAPI настройки клиента внешнего платёжного API
type PaymentsAPI struct {
	BaseURL  string        `yaml:"base_url" env-default:"https://api.website.com/payments"`
	Timeout  time.Duration `yaml:"timeout" env-default:"10s"`
	Token    string        `yaml:"token" env:"PAYMENTS_API_TOKEN"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"0s"` // 0 отключает кэш чтения
}

// Effects настройки асинхронных обработчиков запросов
type Effects struct {
	RequestDeadline time.Duration `yaml:"request_deadline" env-default:"30s"`
	Workers         int           `yaml:"workers" env-default:"8"`
	RetryAttempts   uint          `yaml:"retry_attempts" env-default:"3"`
	RetryDelay      time.Duration `yaml:"retry_delay" env-default:"200ms"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес означает, что кэш не используется.
type RedisConnection struct {
	AddressRedis string        `yaml:"address"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeout"`
}

// RabbitMQ настройки аудита действий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url"`
	Exchange   string        `yaml:"exchange" env-default:"billing.actions"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Load читает конфиг из файла path.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"PaymentsAPI:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"  Token: %s\n"+
			"  CacheTTL: %s\n"+
			"Effects:\n"+
			"  RequestDeadline: %s\n"+
			"  Workers: %d\n"+
			"  RetryAttempts: %d\n"+
			"  RetryDelay: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.BaseURL,
		c.PaymentsAPI.Timeout,
		mask(c.Token),
		c.CacheTTL,
		c.RequestDeadline,
		c.Workers,
		c.RetryAttempts,
		c.Effects.RetryDelay,
		c.AddressRedis,
		c.DB,
		c.Exchange,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
