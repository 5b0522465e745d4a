package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Contact delivery modes.
const (
	// ContactSimulate keeps the contact form entirely in the browser.
	ContactSimulate = "simulate"
	// ContactStore posts messages to the server, which records them.
	ContactStore = "store"
	// ContactSMTP records messages and also mails them.
	ContactSMTP = "smtp"
)

type SMTPConfig struct {
	Host    string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port    string `env:"SMTP_PORT" envDefault:"587"`
	User    string `env:"SMTP_USER"`
	Pass    string `env:"SMTP_PASS"`
	ToEmail string `env:"TO_EMAIL"`
}

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`
	DBPath      string `env:"DB_PATH" envDefault:"portfolio.db"`
	ContentPath string `env:"CONTENT_PATH"`
	Templates   string `env:"TEMPLATES_GLOB" envDefault:"templates/*"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"./static"`
	ImagesDir   string `env:"IMAGES_DIR" envDefault:"./images"`

	ContactMode string        `env:"CONTACT_MODE" envDefault:"simulate"`
	MinLoading  time.Duration `env:"MIN_LOADING" envDefault:"2s"`
	SubmitDelay time.Duration `env:"SUBMIT_DELAY" envDefault:"1500ms"`
	ResetDelay  time.Duration `env:"RESET_DELAY" envDefault:"3s"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`

	SMTP SMTPConfig
}

// loadConfig reads the environment. The .env file, if any, has already been
// loaded by the godotenv autoload import in main.go.
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.ContactMode {
	case ContactSimulate, ContactStore:
	case ContactSMTP:
		if cfg.SMTP.User == "" || cfg.SMTP.Pass == "" {
			return cfg, fmt.Errorf("CONTACT_MODE=smtp needs SMTP_USER and SMTP_PASS")
		}
	default:
		return cfg, fmt.Errorf("unknown CONTACT_MODE %q", cfg.ContactMode)
	}
	return cfg, nil
}
