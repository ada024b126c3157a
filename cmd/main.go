package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"temp_compliance/docs"
	"temp_compliance/internal/config"
	"temp_compliance/internal/handlers"
	"temp_compliance/internal/logger"
	"temp_compliance/internal/publisher"
	"temp_compliance/internal/repository"
	"temp_compliance/internal/repository/db"
	"temp_compliance/internal/server"
	"temp_compliance/internal/service"

	"github.com/jmoiron/sqlx"
)

// @title        Temperature Compliance API
// @version      1.0
// @description  Equipment temperature logging, cook-to-cold cooling tracking and CCP-04 receiving.
// @BasePath     /
func main() {
	// load configs/config.yml, .env and TC_* overrides
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Init(logger.Options{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: cfg.Log.ServiceName,
	})
	defer func() { _ = log.Sync() }()

	docs.SwaggerInfo.BasePath = "/"

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init database", "err", err, "driver", cfg.DB.Driver)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// event stream (no-op when events.redis.addr is empty)
	pub, err := publisher.Open(ctx, publisher.Options{
		Addr:     cfg.Events.RedisAddr,
		Password: cfg.Events.RedisPassword,
		DB:       cfg.Events.RedisDB,
		Stream:   cfg.Events.Stream,
	})
	if err != nil {
		log.Fatalw("failed to connect event stream", "err", err, "addr", cfg.Events.RedisAddr)
	}
	defer func() { _ = pub.Close() }()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Options{
		Logger:       log,
		Publisher:    pub,
		CoolingRules: cfg.Cooling,
		CheckPolicy:  cfg.CheckRules,
		Categories:   cfg.Categories,
		Sensor:       cfg.Sensor,
	})
	apiHandler := handlers.NewHandler(services, log)

	// re-evaluate cooldowns and equipment in the background
	go services.Monitor.Run(ctx, cfg.MonitorInterval)

	// start HTTP server
	srv := server.New(server.Options{
		Port:              cfg.Port,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	})
	runHTTPServer(srv, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, cfg.Server.ShutdownTimeout, log)
}

// openDB initializes the configured database and applies the schema.
func openDB(cfg *config.Config, log *logger.Logger) (*sqlx.DB, error) {
	log.Infow("opening database", "driver", cfg.DB.Driver, "path", cfg.DB.Path)
	return db.InitDB(db.Options{
		Driver: cfg.DB.Driver,
		Path:   cfg.DB.Path,
		DSN:    cfg.DB.DSN,
	})
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", srv.Addr())
		if err := srv.Run(handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
