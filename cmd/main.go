package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/jwtauth"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/api"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/handler"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/imagestore"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/internal/db"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/internal/env"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/internal/logger"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/service"
)

func main() {
	env := env.Start()

	log, err := logger.New(logger.Config{Level: env.LogLevel, Format: env.LogFormat, File: env.LogFile})
	if err != nil {
		slog.Error("error configuring logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(log)
	log.Info("starting server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, env, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, env *env.Env, log *slog.Logger) error {
	conn, err := db.Open(ctx, db.DBConfig{
		Host:     env.DBHost,
		Port:     env.DBPort,
		User:     env.DBUser,
		Password: env.DBPass,
		Name:     env.DBName,
		SSLMode:  env.SSLMode,
	}, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.ApplyMigrations(ctx, conn, env.MigrationsPath); err != nil {
		return err
	}
	log.Info("migrations applied successfully")

	productRepo := repository.NewProductRepo(conn, repository.PageLimits{
		DefaultSize: env.DefaultPageSize,
		MaxSize:     env.MaxPageSize,
	})
	userRepo := repository.NewUserRepo(conn)

	if env.Seed {
		if err := db.Seed(ctx, conn, productRepo, log); err != nil {
			return err
		}
	}
	if err := db.EnsureAdmin(ctx, userRepo, env.AdminUsername, env.AdminPassword, log); err != nil {
		return err
	}

	images, err := imagestore.NewLocal(env.UploadDir, env.PublicURL, env.MaxUploadBytes)
	if err != nil {
		return err
	}

	router := handler.NewRouter(handler.RouterDeps{
		Env:       env,
		Log:       log,
		Products:  service.NewProductService(productRepo, images, log),
		Users:     userRepo,
		TokenAuth: jwtauth.New("HS256", []byte(env.SecretKey), nil),
		ImageDir:  images.Dir(),
	})

	return api.NewApi(env.Addr, log).Run(ctx, router)
}
