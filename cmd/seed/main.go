// Crea el usuario administrador inicial si todavía no existe ninguno.
package main

import (
	"context"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"floreria-service/internal/logging"
	"floreria-service/internal/repository"
	"floreria-service/internal/service"
)

type seedConfig struct {
	AppEnv        string `env:"APP_ENV" envDefault:"development"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDBName   string `env:"MONGO_DB_NAME" envDefault:"floreria"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@flores.com"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"admin123"`
}

func main() {
	_ = godotenv.Load()

	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parseando variables de entorno: %v", err)
	}

	logger, err := logging.New(logging.Config{ServiceName: "floreria-seed", Env: cfg.AppEnv})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logging.Sync(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("conectando a MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDBName)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("creando índices", zap.Error(err))
	}

	admin, creado, err := service.NewUsuarioService(service.MongoStore(db)).SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatal("creando administrador", zap.Error(err))
	}
	if !creado {
		logger.Info("ya existe un administrador", zap.String("email", admin.Email))
		return
	}
	logger.Info("administrador creado", zap.String("email", admin.Email))
}
