package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Acquiring Acquiring `envPrefix:"ACQUIRING_"`
	SMTP      SMTP      `envPrefix:"SMTP_"`
	Admin     Admin     `envPrefix:"ADMIN_"`
}

type Acquiring struct {
	BaseApiURL string `env:"BASE_API_URL"`
	// Token authenticates outbound calls to the acquiring service.
	Token        string `env:"TOKEN"`
	CustomerCode string `env:"CUSTOMER_CODE"`
	MerchantID   string `env:"MERCHANT_ID"`
	// WebhookPublicKey is the PEM-encoded RSA key the gateway signs
	// webhook tokens with.
	WebhookPublicKey string        `env:"WEBHOOK_PUBLIC_KEY"`
	RedirectURL      string        `env:"REDIRECT_URL"`
	FailRedirectURL  string        `env:"FAIL_REDIRECT_URL"`
	Timeout          time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type SMTP struct {
	Host     string        `env:"HOST"`
	Port     string        `env:"PORT" envDefault:"587"`
	Username string        `env:"USERNAME"`
	Password string        `env:"PASSWORD"`
	From     string        `env:"FROM"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type Admin struct {
	// Token guards the management endpoints.
	Token string `env:"TOKEN"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
