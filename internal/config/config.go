package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		Port          int           `env:"PORT" envDefault:"8080"`
		ReadTimeout   time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout  time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
		StoreType     string        `env:"TILE_STORE" envDefault:"file"`
		StoreRoot     string        `env:"TILE_STORE_ROOT" envDefault:"/data/aton_tiles"`
		TileTTL       time.Duration `env:"TILE_TTL" envDefault:"24h"`
		BlankIndexTTL time.Duration `env:"BLANK_INDEX_TTL" envDefault:"24h"`
		SourceFile    string        `env:"ATON_SOURCE_FILE" envDefault:"atons.geojson"`
		LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
		AllowedOrigin string        `env:"ALLOWED_ORIGIN" envDefault:""`
		Redis         Redis         `envPrefix:"REDIS_"`
	}

	Redis struct {
		Addr     string `env:"ADDR" envDefault:"localhost:6379"`
		Password string `env:"PASSWORD" envDefault:""`
		DB       int    `env:"DB" envDefault:"0"`
	}
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("NOTICE: .env file not found or cannot be loaded: %v", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
