package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/geo-dev/geo/internal/errors"
)

// Env holds values supplied by the deploy environment.
type Env struct {
	// BaseURL is the path the console is mounted under.
	BaseURL string `env:"BASE_URL" envDefault:"/"`

	// OTelEndpoint enables OTLP/HTTP trace export when set.
	OTelEndpoint string `env:"GEO_OTEL_ENDPOINT"`
	ServiceName  string `env:"GEO_SERVICE_NAME" envDefault:"geo"`

	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSSessionToken    string `env:"AWS_SESSION_TOKEN"`
}

// ParseEnv loads environment values into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return errors.New("E121").WithDetail(err.Error()).Wrap(err)
	}
	return nil
}
