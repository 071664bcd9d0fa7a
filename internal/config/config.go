package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID         string `validate:"required"`
	Region            string
	LogLevel          string `validate:"omitempty,oneof=debug info warn warning error"`
	Port              string `validate:"required,numeric"`
	AppVersion        string
	PhotoBucket       string
	SendgridAPIKey    string
	SendgridKeySecret string
	MailFromAddress   string `validate:"omitempty,email"`
	MailFromName      string
}

var validate = validator.New()

// New reads the process environment. A .env file in the working directory is
// loaded first for local runs; variables already set win over it.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ProjectID:         os.Getenv("PROJECTID"),
		Region:            os.Getenv("REGION"),
		LogLevel:          os.Getenv("LOGLEVEL"),
		Port:              getOr("PORT", "8080"),
		AppVersion:        getOr("APPVERSION", "dev"),
		PhotoBucket:       os.Getenv("PHOTOBUCKET"),
		SendgridAPIKey:    os.Getenv("SENDGRIDAPIKEY"),
		SendgridKeySecret: getOr("SENDGRIDKEYSECRET", "sendgrid-api-key"),
		MailFromAddress:   getOr("MAILFROMADDRESS", "bookings@dadhelper.app"),
		MailFromName:      getOr("MAILFROMNAME", "Dad Helper"),
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ValidateAPI checks the settings only the API process needs.
func (c *Config) ValidateAPI() error {
	if err := validate.Var(c.PhotoBucket, "required"); err != nil {
		return fmt.Errorf("PHOTOBUCKET: %w", err)
	}
	return nil
}

func getOr(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}
