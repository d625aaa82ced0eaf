package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":3000"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	FactoryURL     string        `env:"FACTORY_URL"`
	FactoryAPIKey  string        `env:"FACTORY_API_KEY"`
	FactoryTimeout time.Duration `env:"FACTORY_TIMEOUT" envDefault:"10s"`

	CORSOrigins          []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	DefaultAdminName     string `env:"DEFAULT_ADMIN_NAME" envDefault:"admin"`
	DefaultAdminEmail    string `env:"DEFAULT_ADMIN_EMAIL"`
	DefaultAdminPassword string `env:"DEFAULT_ADMIN_PASSWORD"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
