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

	"venus/config"
	"venus/internal/database"
	"venus/internal/router"
	"venus/pkg/storage"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database, cfg.Server.Env)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedPlans(db)

	uploader, err := storage.New(storage.Config{
		Type:      cfg.Storage.Type,
		CloudName: cfg.Storage.CloudinaryCloudName,
		APIKey:    cfg.Storage.CloudinaryAPIKey,
		APISecret: cfg.Storage.CloudinaryAPISecret,
		Endpoint:  cfg.Storage.S3Endpoint,
		Region:    cfg.Storage.S3Region,
		Bucket:    cfg.Storage.S3Bucket,
		AccessKey: cfg.Storage.S3AccessKey,
		SecretKey: cfg.Storage.S3SecretKey,
		BaseURL:   cfg.Storage.S3BaseURL,
	})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	engine := router.Setup(cfg, db, uploader)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
