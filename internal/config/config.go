package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"` // пусто: debug в development, info в production
	DBDSN       string `env:"DB_DSN,required,notEmpty"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`

	// Пустое значение: встроенные миграции
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	// Первичный администратор, создаётся при старте если админов ещё нет
	AdminPhone    string `env:"ADMIN_PHONE"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminFullname string `env:"ADMIN_FULLNAME" envDefault:"Admin"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return Parse()
}

// Parse читает конфигурацию только из переменных окружения
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if len(cfg.JWTSecret) < 16 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if (cfg.AdminPhone == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("ADMIN_PHONE and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasBootstrapAdmin reports whether an initial admin account is configured.
func (c *Config) HasBootstrapAdmin() bool {
	return c.AdminPhone != "" && c.AdminPassword != ""
}
