package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raglite/raglite/config"
	"raglite/raglite/controllers"
	"raglite/raglite/middlewares"
	"raglite/raglite/routes"
	"raglite/raglite/sources/psql"
	"raglite/raglite/sources/psql/dao"
	"raglite/raglite/sources/storage"
	"raglite/raglite/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Storage backend is selected once from configuration and shared.
	store, err := storage.New(cfg)
	if err != nil {
		logging.ErrorLogger.Error("storage initialization error", zap.Error(err))
		os.Exit(1)
	}

	userDAO := dao.NewUserDAO(db.DB)
	kbDAO := dao.NewKnowledgebaseDAO(db.DB)
	settingsDAO := dao.NewSettingsDAO(db.DB)

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	kbCtrl := controllers.NewKnowledgebaseController(kbDAO, store, cfg)
	settingsCtrl := controllers.NewSettingsController(settingsDAO)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogging)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/api/v1/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/api/v1/kb", routes.KnowledgebaseRoutes(kbCtrl, cfg))
	r.Mount("/api/v1/settings", routes.SettingsRoutes(settingsCtrl, cfg))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
