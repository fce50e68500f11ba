package config

import (
	"os"
	"strings"

	"github.com/ivkudzin/unimatch/pkg/path"
	"github.com/joho/godotenv"
)

type IConfig interface {
	Get(key string) string
}

// Config is an immutable snapshot of the environment, resolved once at
// startup and passed to components explicitly. Keys are looked up with an
// environment prefix (TEST_, DEV_, ...) first, bare name second.
type Config struct {
	Key map[string]string
	Env string
}

func NewConfig(env string) (*Config, error) {
	env = strings.ToUpper(env)

	basePath, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// .env is optional; real deployments configure through the environment.
	if root, err := path.FindRoot(basePath, ".env", false); err == nil {
		if err := godotenv.Load(root + "/.env"); err != nil {
			return nil, err
		}
	}

	keys := []string{
		"POSTGRES_DB_NAME",
		"POSTGRES_USER",
		"POSTGRES_PASSWORD",
		"POSTGRES_HOST",
		"POSTGRES_PORT",
		"REDIS_HOST",
		"REDIS_PORT",
		"JWT_SECRET",
		"TELEGRAM_BOT_TOKEN",
		"UPLOAD_DIR",
		"LOG_LEVEL",
		"LOG_FORMAT",
	}

	cfg := &Config{
		Key: make(map[string]string, len(keys)+1),
		Env: env,
	}

	for _, k := range keys {
		cfg.Key[k] = getEnv(env+"_"+k, os.Getenv(k))
	}

	cfg.Key["PORT"] = getEnv("PORT", "8080")

	if cfg.Key["UPLOAD_DIR"] == "" {
		cfg.Key["UPLOAD_DIR"] = "uploads"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) Get(key string) string {
	return c.Key[key]
}
