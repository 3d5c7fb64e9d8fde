package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything main needs to wire the service. Values come
// from the environment, with a .env file picked up in development.
type Config struct {
	Port        string
	DatabaseURL string

	// Timezone is the zone "today" is evaluated in for the overview stats.
	Timezone string

	LogLevel  string
	LogFormat string

	// Optional Redis stats cache; empty addr disables it.
	RedisAddr     string
	RedisPassword string

	// Optional AMQP audit stream; empty URL disables it.
	AMQPURL string

	// Optional SMTP new-lead alerts; empty host disables them.
	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string
	MailTo   string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Timezone:      getenv("APP_TIMEZONE", "UTC"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "json"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AMQPURL:       os.Getenv("AMQP_URL"),
		MailHost:      os.Getenv("MAIL_HOST"),
		MailPort:      getenvInt("MAIL_PORT", 587),
		MailUser:      os.Getenv("MAIL_USER"),
		MailPass:      os.Getenv("MAIL_PASS"),
		MailFrom:      getenv("MAIL_FROM", "no-reply@leadgen.local"),
		MailTo:        os.Getenv("MAIL_TO"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
