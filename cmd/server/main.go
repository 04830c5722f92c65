package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"profiledash/internal/api"
	"profiledash/internal/app/service"
	"profiledash/internal/domain/repository"
	"profiledash/internal/platform/blob"
	"profiledash/internal/platform/config"
	"profiledash/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize Database. A connection failure at startup is a fatal
	// configuration error; nothing retries it.
	db, err := database.Connect(config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("Schema bootstrap failed: %v", err)
	}
	fmt.Println("Database connected.")

	// 3. Initialize Blob Store
	blobStore := blob.New(config.AppConfig)
	fmt.Println("Blob store initialized.")

	// 4. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	sessionRepo := repository.NewPgSessionRepository(db)
	cardRepo := repository.NewPgCardRepository(db)

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo, sessionRepo, db, config.AppConfig.SessionTTL)
	userService := service.NewUserService(userRepo, sessionRepo, cardRepo, db)
	cardService := service.NewCardService(cardRepo, db)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, cardService, blobStore, db, config.AppConfig.CookieSecure)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
