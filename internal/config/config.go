package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string

	LogLevel string

	KafkaBrokers []string
	KafkaTopic   string

	OTLPEndpoint string
}

// Load reads the process environment, seeding it from the given .env files
// first. Missing files are not an error. Call Validate on the result.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			log.Printf("notice: %s not loaded (%v), reading process environment only", f, err)
		}
	}

	return Config{
		ServiceName:  lookup("SERVICE_NAME", "recommendations"),
		ServerPort:   lookupPort("SERVER_PORT", 8080),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:     lookup("LOG_LEVEL", "info"),
		KafkaBrokers: SplitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   lookup("KAFKA_TOPIC", "recommendation_events"),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}
}

// Validate reports every setting the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	return errors.Join(errs...)
}

// SplitList splits a comma separated env value, dropping blanks.
func SplitList(v string) []string {
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' })
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func lookup(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// lookupPort returns def when key is unset and 0 when it is not a number,
// which Validate then rejects.
func lookupPort(key string, def int) int {
	v := lookup(key, "")
	if v == "" {
		return def
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return port
}
