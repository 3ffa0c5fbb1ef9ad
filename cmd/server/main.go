package main

import (
	"log"
	"net/http"
	"strings"

	_ "tempus/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tempus/internal/auth"
	"tempus/internal/cache"
	"tempus/internal/config"
	"tempus/internal/db"
	"tempus/internal/handler"
	"tempus/internal/model"
	"tempus/internal/repository"
	"tempus/internal/router"
	"tempus/internal/service"
)

// @title Tempus Time Tracking API
// @version 1.0
// @description Personal time tracker: projects, timer sessions, statistics and notes behind JWT authentication.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.TimeSession{},
		&model.Note{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	noteRepo := repository.NewNoteRepository(gormDB)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	// Services
	authService := service.NewAuthService(userRepo, jwtService)
	projectService := service.NewProjectService(projectRepo, cacheClient)
	sessionService := service.NewSessionService(projectRepo, sessionRepo, cacheClient)
	noteService := service.NewNoteService(noteRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	noteHandler := handler.NewNoteHandler(noteService)

	router.Register(
		e,
		jwtService,
		authHandler,
		projectHandler,
		sessionHandler,
		noteHandler,
	)

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := cfg.SwaggerHost
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "http://" + host
		}
		swaggerURL = host + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
