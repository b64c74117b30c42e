package db

import (
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func LoadPostgresConfig() (PostgresConfig, error) {
	port, err := envIntOr("DB_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, err
	}
	maxOpen, err := envIntOr("DB_MAX_OPEN_CONNS", 20)
	if err != nil {
		return PostgresConfig{}, err
	}
	maxIdle, err := envIntOr("DB_MAX_IDLE_CONNS", 10)
	if err != nil {
		return PostgresConfig{}, err
	}

	return PostgresConfig{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     port,
		User:     envOr("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   envOr("DB_NAME", "bookverse"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),

		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	}, nil
}
