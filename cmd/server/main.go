package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Jegatheesh001/billzen-server/internal/api"
	"github.com/Jegatheesh001/billzen-server/internal/config"
	"github.com/Jegatheesh001/billzen-server/internal/repository"
	"github.com/Jegatheesh001/billzen-server/internal/service"
	"github.com/Jegatheesh001/billzen-server/internal/utils"
)

func main() {
	utils.SetupLogger()

	// Load configuration
	cfg := config.LoadConfig()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		slog.Error("failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret)

	// Create API handler
	handler := api.NewHandler(svc, cfg.Auth.JWTSecret)

	// Set up Gin router
	router := gin.Default()
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("starting server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
