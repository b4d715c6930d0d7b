package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"

	"floreria-service/internal/config"
	"floreria-service/internal/controller"
	"floreria-service/internal/logging"
	"floreria-service/internal/media"
	"floreria-service/internal/middleware"
	"floreria-service/internal/notify"
	"floreria-service/internal/rabbit"
	"floreria-service/internal/repository"
	"floreria-service/internal/repository/memory"
	"floreria-service/internal/routes"
	"floreria-service/internal/service"
	"floreria-service/internal/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuración inválida: %v", err)
	}

	logger, err := logging.New(logging.Config{
		ServiceName: "floreria-service",
		Env:         cfg.AppEnv,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logging.Sync(logger)

	cfg.Log(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	sd := shutdown.New(cfg.ShutdownTimeout, logger)

	// Persistencia
	var store *service.Store
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("usando almacenamiento en memoria, los datos se pierden al reiniciar")
		store = service.MemoryStore(memory.NewStore())
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := repository.Connect(ctx, cfg.MongoURI)
		if err != nil {
			cancel()
			logger.Fatal("conectando a MongoDB", zap.Error(err))
		}
		db := client.Database(cfg.MongoDBName)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			cancel()
			logger.Fatal("creando índices", zap.Error(err))
		}
		cancel()
		sd.Add("mongo", shutdown.DisconnectMongo(client))
		store = service.MongoStore(db)
		logger.Info("MongoDB conectado", zap.String("db", cfg.MongoDBName))
	}

	// Imágenes
	var mediaStore media.Store = media.Disabled{}
	switch cfg.MediaDriver {
	case "local":
		local, err := media.NewLocal(cfg.MediaLocalDir, cfg.MediaPublicPath)
		if err != nil {
			logger.Fatal("media local", zap.Error(err))
		}
		mediaStore = local
	case "s3":
		s3Store, err := media.NewS3(context.Background(), media.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
			AccessKey:     cfg.AWSAccessKey,
			SecretKey:     cfg.AWSSecretKey,
		})
		if err != nil {
			logger.Fatal("media s3", zap.Error(err))
		}
		mediaStore = s3Store
	default:
		logger.Warn("almacenamiento de imágenes deshabilitado")
	}

	// Notificaciones: por RabbitMQ si está configurado, si no directo a la base
	var sink notify.Sink = notify.StoreSink{Repo: store.Notificaciones}
	if cfg.RabbitURL != "" {
		conn, err := rabbit.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatal("conectando a RabbitMQ", zap.Error(err))
		}
		consumer := rabbit.NewNotificacionConsumer(store.Notificaciones, logger)
		if err := conn.SetupConsumers(consumer, logger); err != nil {
			logger.Fatal("consumer de notificaciones", zap.Error(err))
		}
		sd.Add("rabbit", func(context.Context) error { return conn.Close() })
		sink = conn.Publisher()
	}
	dispatcher := notify.NewDispatcher(sink, cfg.NotifyWorkers, cfg.NotifyBuffer, logger)
	sd.Add("notificaciones", dispatcher.Close)

	// Rate limit
	var limitStore limiter.Store = middleware.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis no disponible, rate limit en memoria", zap.Error(err))
			_ = rdb.Close()
		} else if st, err := middleware.NewRedisStore(rdb); err != nil {
			logger.Warn("store de rate limit en Redis", zap.Error(err))
			_ = rdb.Close()
		} else {
			limitStore = st
			sd.Add("redis", func(context.Context) error { return rdb.Close() })
		}
		cancel()
	}

	// Servicios
	authService := service.NewAuthService(store.Usuarios, mediaStore, cfg.JWTSecret, cfg.JWTTTL)
	pedidoService := service.NewPedidoService(store, mediaStore, dispatcher, logger)
	pedidoService.Metrics = middleware.PedidoMetrics{}
	arregloService := service.NewArregloService(store, mediaStore, cfg.MediaMaxBytes, logger)

	// Recordatorios de entrega
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweeper := service.NewReminderSweeper(store, dispatcher, cfg.ReminderInterval, logger)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweeper.Run(sweepCtx)
	}()
	sd.Add("recordatorios", func(ctx context.Context) error {
		stopSweep()
		select {
		case <-sweepDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	maxBytes := cfg.MediaMaxBytes
	deps := routes.Deps{
		Controllers: routes.Controllers{
			Auth:           controller.NewAuthController(authService, maxBytes),
			Pedidos:        controller.NewPedidoController(pedidoService, maxBytes),
			Arreglos:       controller.NewArregloController(arregloService, maxBytes),
			Tipos:          controller.NewTipoArregloController(service.NewTipoArregloService(store)),
			Flores:         controller.NewFlorController(service.NewFlorService(store, mediaStore), maxBytes),
			Stock:          controller.NewStockController(service.NewStockService(store, mediaStore), maxBytes),
			Notificaciones: controller.NewNotificacionController(service.NewNotificacionService(store.Notificaciones)),
			Configuracion:  controller.NewConfiguracionController(service.NewConfiguracionService(store.Configuracion, mediaStore, logger), maxBytes),
			Admin:          controller.NewAdminController(service.NewUsuarioService(store)),
		},
		Auth:            authService,
		Limiter:         limitStore,
		Log:             logger,
		Environment:     cfg.AppEnv,
		RateLimitWindow: cfg.RateLimitWindow,
		RateLimitAPI:    cfg.RateLimitAPI,
		RateLimitAuth:   cfg.RateLimitAuth,
	}
	if cfg.MediaDriver == "local" && !cfg.IsProduction() {
		deps.UploadsDir = cfg.MediaLocalDir
		deps.UploadsURL = cfg.MediaPublicPath
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	sd.Add("http", shutdown.ShutdownHTTPServer(srv))

	go func() {
		logger.Info("servidor escuchando", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("servidor http", zap.Error(err))
			stopSweep()
		}
	}()

	sd.Wait(sweepCtx)
}
