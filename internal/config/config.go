// config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"5000"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI    string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDBName string `env:"MONGO_DB_NAME" envDefault:"floreria"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`

	// Sin RABBIT_URL las notificaciones se escriben directo en la base.
	RabbitURL     string `env:"RABBIT_URL"`
	NotifyWorkers int    `env:"NOTIFY_WORKERS" envDefault:"2"`
	NotifyBuffer  int    `env:"NOTIFY_BUFFER" envDefault:"256"`

	MediaDriver     string `env:"MEDIA_DRIVER" envDefault:"local"`
	MediaLocalDir   string `env:"MEDIA_LOCAL_DIR" envDefault:"uploads"`
	MediaPublicPath string `env:"MEDIA_PUBLIC_PATH" envDefault:"/uploads"`
	MediaMaxBytes   int64  `env:"MEDIA_MAX_BYTES" envDefault:"5242880"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	AWSAccessKey    string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey    string `env:"AWS_SECRET_ACCESS_KEY"`

	// Sin REDIS_ADDR los contadores de rate limit viven en memoria.
	RedisAddr       string        `env:"REDIS_ADDR"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitAPI    int           `env:"RATE_LIMIT_API"`
	RateLimitAuth   int           `env:"RATE_LIMIT_AUTH" envDefault:"5"`

	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"5m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load lee .env si existe y después las variables de entorno.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parseando variables de entorno: %w", err)
	}
	if cfg.RateLimitAPI == 0 {
		if cfg.IsProduction() {
			cfg.RateLimitAPI = 100
		} else {
			cfg.RateLimitAPI = 1000
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET es obligatorio"))
	}
	switch c.AppEnv {
	case "development", "production", "test":
	default:
		errs = append(errs, fmt.Errorf("APP_ENV desconocido: %q", c.AppEnv))
	}
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER desconocido: %q", c.StoreDriver))
	}
	switch c.MediaDriver {
	case "none", "local":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("MEDIA_DRIVER=s3 requiere S3_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("MEDIA_DRIVER desconocido: %q", c.MediaDriver))
	}
	if c.NotifyWorkers < 1 {
		errs = append(errs, errors.New("NOTIFY_WORKERS debe ser al menos 1"))
	}
	if c.MediaMaxBytes <= 0 {
		errs = append(errs, errors.New("MEDIA_MAX_BYTES debe ser positivo"))
	}
	if c.RateLimitWindow <= 0 || c.RateLimitAPI <= 0 || c.RateLimitAuth <= 0 {
		errs = append(errs, errors.New("los límites de rate limit deben ser positivos"))
	}
	if c.ReminderInterval <= 0 {
		errs = append(errs, errors.New("REMINDER_INTERVAL debe ser positivo"))
	}
	return errors.Join(errs...)
}

// Log imprime la configuración efectiva sin exponer secretos.
func (c *Config) Log(log *zap.Logger) {
	log.Info("configuración cargada",
		zap.String("app_env", c.AppEnv),
		zap.String("port", c.Port),
		zap.String("store_driver", c.StoreDriver),
		zap.String("mongo_uri", MaskURI(c.MongoURI)),
		zap.String("mongo_db", c.MongoDBName),
		zap.Bool("rabbit", c.RabbitURL != ""),
		zap.String("media_driver", c.MediaDriver),
		zap.Bool("redis", c.RedisAddr != ""),
		zap.Duration("rate_limit_window", c.RateLimitWindow),
		zap.Int("rate_limit_api", c.RateLimitAPI),
		zap.Duration("reminder_interval", c.ReminderInterval),
	)
}

// MaskURI oculta la contraseña de una URI de conexión.
func MaskURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
