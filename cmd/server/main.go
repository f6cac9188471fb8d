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

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/database"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/router"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/worker"
	"github.com/Ken-Miura/career-change-supporter-sub005/pkg/payment"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)

	var gateway payment.Provider
	if cfg.PayGateway.UseStub {
		log.Printf("[PayGateway] secret key not set, using in-memory stub")
		gateway = payment.NewStubProvider()
	} else {
		gateway = payment.NewPayJPProvider(cfg.PayGateway.BaseURL, cfg.PayGateway.SecretKey)
	}

	engine, services := router.Setup(cfg, db, gateway)

	settlementWorker := worker.NewSettlementWorker(cfg.Settlement, services.Settlement, services.Consultation)
	if err := settlementWorker.Start(); err != nil {
		log.Fatalf("settlement worker: %v", err)
	}

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
	settlementWorker.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
