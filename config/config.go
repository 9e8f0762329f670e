package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port        string `envconfig:"PORT" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET_KEY" required:"true"`
	UploadsDir  string `envconfig:"UPLOADS_DIR" default:"uploads"`
}

var (
	SecretKey []byte
	Uploads   string
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file loaded: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	SecretKey = []byte(cfg.JWTSecret)
	Uploads = cfg.UploadsDir
	return &cfg, nil
}
