// Package config loads the application configuration from a YAML file,
// applying sensible defaults for everything that isn't set.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

type Config struct {
	Env             string        `yaml:"env"`
	BaseURL         string        `yaml:"base_url"`
	ShortCodeLength int           `yaml:"short_code_length"`
	DefaultValidity time.Duration `yaml:"default_validity"`
	HTTPServer      `yaml:"http_server"`
	Geo             `yaml:"geo"`
	LogSink         `yaml:"log_sink"`
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Geo configures the external geolocation lookup service.
type Geo struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

var defaultGeo = Geo{
	Endpoint: "https://ipapi.co",
	Timeout:  2 * time.Second,
}

// LogSink configures the remote structured log delivery endpoint.
// An empty token disables delivery.
type LogSink struct {
	Endpoint string        `yaml:"endpoint"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
}

var defaultLogSink = LogSink{
	Timeout: 3 * time.Second,
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.BaseURL = "http://localhost:8080"
	cfg.ShortCodeLength = 6
	cfg.DefaultValidity = 30 * time.Minute
	cfg.HTTPServer = defaultHTTPServer
	cfg.Geo = defaultGeo
	cfg.LogSink = defaultLogSink
}
