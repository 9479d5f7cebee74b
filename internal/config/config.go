package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type WizardConfig struct {
	CookieName  string `yaml:"cookie_name"`
	EmailDomain string `yaml:"email_domain"`
	DraftTTL    string `yaml:"draft_ttl"`
	Suggestions int    `yaml:"suggestions"`
}

type VerificationConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type TokenConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Wizard       WizardConfig       `yaml:"wizard"`
	Verification VerificationConfig `yaml:"verification"`
	Token        TokenConfig        `yaml:"token"`
	Twilio       TwilioConfig       `yaml:"twilio"`
}

type Config struct {
	Port    string
	GinMode string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CookieName  string
	EmailDomain string
	// DraftTTL of zero keeps drafts forever, matching the source behavior.
	DraftTTL    time.Duration
	Suggestions int

	VerificationTTL    time.Duration
	VerificationLength int
	MaxAttempts        int
	ResendWindow       time.Duration

	TokenSecret string
	TokenIssuer string
	TokenTTL    time.Duration

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the YAML config file (path overridable via REGWIZARD_CONFIG) and
// resolves the handful of secrets that may instead come from the environment.
func Load() (*Config, error) {
	path := env("REGWIZARD_CONFIG", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	draftTTL, err := parseTTL(configFile.Wizard.DraftTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid draft TTL: %w", err)
	}

	verTTL, err := time.ParseDuration(configFile.Verification.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid verification TTL: %w", err)
	}

	resWnd, err := parseTTL(configFile.Verification.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid resend window: %w", err)
	}

	tokenTTL, err := time.ParseDuration(configFile.Token.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid token TTL: %w", err)
	}

	cfg := &Config{
		Port:               fmt.Sprintf("%d", configFile.App.Port),
		GinMode:            configFile.App.GinMode,
		DSN:                env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:          env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:      env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:            configFile.Redis.DB,
		CookieName:         configFile.Wizard.CookieName,
		EmailDomain:        configFile.Wizard.EmailDomain,
		DraftTTL:           draftTTL,
		Suggestions:        configFile.Wizard.Suggestions,
		VerificationTTL:    verTTL,
		VerificationLength: configFile.Verification.Length,
		MaxAttempts:        configFile.Verification.MaxAttempts,
		ResendWindow:       resWnd,
		TokenSecret:        env("TOKEN_SECRET", configFile.Token.Secret),
		TokenIssuer:        configFile.Token.Issuer,
		TokenTTL:           tokenTTL,
		TwilioSID:          env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:        env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:         env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "registration_id"
	}
	if cfg.EmailDomain == "" {
		cfg.EmailDomain = "example.com"
	}
	if cfg.Suggestions <= 0 {
		cfg.Suggestions = 3
	}
	if cfg.VerificationLength <= 0 {
		cfg.VerificationLength = 6
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}

	return cfg, nil
}

// parseTTL treats "" and "0" as disabled.
func parseTTL(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
