package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sss-backend/internal/bootstrap"
	"sss-backend/internal/config"
	apphttp "sss-backend/internal/http"
	"sss-backend/internal/repository/sqlite"
	"sss-backend/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Fatalf("parse log level: %v", err)
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	memberRepo := sqlite.NewMemberRepository(db)
	tx := sqlite.NewTransactor(db)
	memberService := service.NewMemberService(memberRepo, cfg.Auth.BcryptCost)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(memberService)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	runners := []bootstrap.Runner{
		bootstrap.NewRunner("schema", 1, memberRepo.Init),
		bootstrap.NewBaseMembers(memberService, tx, cfg.Seed.AdminPassword, logger),
	}
	if cfg.Seed.Samples {
		runners = append(runners, bootstrap.NewSampleMembers(memberService, tx, logger))
	} else {
		logger.WithField("profile", cfg.App.Profile).Info("sample members disabled")
	}

	switch err := bootstrap.Run(ctx, logger, runners...); {
	case errors.Is(err, context.Canceled):
		logger.Warn("startup interrupted")
	case err != nil:
		logger.Fatalf("startup: %v", err)
	default:
		handler.MarkReady()
	}

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
