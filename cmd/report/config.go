package report

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:3001/api"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
