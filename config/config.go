package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"ENV" env-default:"development" env-description:"Environment"`
	Port string `env:"PORT" env-default:"8080"`

	Mongo       Mongo
	StoreDriver string `env:"STORE_DRIVER" env-default:"mongo" env-description:"mongo or memory"`
	Redis       Redis

	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	JWTTTL    time.Duration `env:"JWT_TTL" env-default:"24h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	CSPConnectSources  []string `env:"CSP_CONNECT_SOURCES" env-separator:"," env-description:"Origins allowed in CSP connect-src"`

	Admin Admin
	SMTP  SMTP

	UploadDir  string `env:"UPLOAD_DIR" env-default:"uploads"`
	PrivateDir string `env:"PRIVATE_UPLOAD_DIR" env-default:"private_uploads"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
}

type Mongo struct {
	URI    string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	DBName string `env:"DB_NAME" env-default:"shop"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// Admin is seeded on startup when both Email and Password are set.
type Admin struct {
	Name     string `env:"ADMIN_NAME" env-default:"Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// SMTP is disabled when Host is empty.
type SMTP struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT" env-default:"587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	From string `env:"FROM_EMAIL"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.StoreDriver != "mongo" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("Failed to read config: " + err.Error())
	}
	return cfg
}
