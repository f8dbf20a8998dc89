package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fathima-sithara/contacts-service/internal/bootstrap"
	"github.com/fathima-sithara/contacts-service/internal/server"
)

func main() {
	appCtx, cleanup, err := bootstrap.Init("config.yaml")
	if err != nil {
		log.Fatalf("failed to bootstrap: %v", err)
	}

	app := server.New(appCtx.Config, appCtx.Auth, appCtx.AuthHandler, appCtx.ContactHandler, appCtx.UserHandler, appCtx.Logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", appCtx.Config.App.Port)
		appCtx.Sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			appCtx.Sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	appCtx.Sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		appCtx.Sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	cleanup(ctxShut)

	appCtx.Sugar.Info("Graceful shutdown complete.")
}
