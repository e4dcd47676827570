package main

import (
	"context"
	"net/http"

	_ "teamhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"teamhub/internal/auth"
	"teamhub/internal/cache"
	"teamhub/internal/config"
	"teamhub/internal/db"
	"teamhub/internal/handler"
	"teamhub/internal/logger"
	"teamhub/internal/mail"
	"teamhub/internal/model"
	"teamhub/internal/repository"
	"teamhub/internal/router"
	"teamhub/internal/service"
)

// @title Teamhub User API
// @version 1.0
// @description User account management API: listing, current-user lookup and field-filtered profile updates behind JWT authentication.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New("teamhub")

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.MailOutbox{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	outboxRepo := repository.NewOutboxRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	userService := service.NewUserService(userRepo, roleRepo, cacheClient, cfg.DefaultRoleID)
	authService := service.NewAuthService(userService, jwtService)

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService, userService)

	router.Register(e, cfg, userHandler, authHandler)

	// Outbox dispatcher runs alongside the server; pending registration
	// mails survive restarts in the mail_outboxes table.
	publisher := mail.NewQueuePublisher(cfg.AMQPURL)
	dispatcher := mail.NewDispatcher(outboxRepo, publisher, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
