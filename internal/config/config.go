package config

import (
	"flag"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	Port        string `env:"PORT"`
	DatabaseDSN string `env:"DATABASE_URL"`
	AccessCode  string `env:"ACCESS_CODE"`

	// Upload / session limits
	MaxUploadMB     int `env:"MAX_UPLOAD_MB"`
	SessionTTLHours int `env:"SESSION_TTL_HOURS"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.Port, "p", cfg.Port, "порт HTTP-сервера")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к Postgres")
	flag.StringVar(&cfg.AccessCode, "access-code", cfg.AccessCode, "общий код доступа к карте")
	flag.IntVar(&cfg.MaxUploadMB, "max-upload-mb", cfg.MaxUploadMB, "максимальный размер загружаемого фото, МБ")
	flag.IntVar(&cfg.SessionTTLHours, "session-ttl", cfg.SessionTTLHours, "время жизни сессии в часах")

	flag.Parse()

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "10000"
	}
	if cfg.AccessCode == "" {
		cfg.AccessCode = "suuuu"
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 15
	}
	if cfg.SessionTTLHours <= 0 {
		cfg.SessionTTLHours = 24
	}

	return cfg
}
