package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"q4auction/api"
)

func main() {
	args, err := ParseArgs()
	if err != nil {
		panic(err)
	}
	if err := args.Validate(); err != nil {
		panic(err)
	}
	slog.SetDefault(args.Logger())

	server, err := api.NewServer(args.ServerConfig)
	if err != nil {
		panic(err)
	}
	defer server.Close()
	if err := server.Start(); err != nil {
		panic(err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(slog.Default()))
	server.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:    args.ServerURL,
		Handler: router,
	}
	go func() {
		slog.Info("Server listening", slog.String("addr", args.ServerURL), slog.String("store", string(args.ServerConfig.Store)))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped unexpectedly", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// 收到關閉信號後等待進行中的請求完成，再關閉背景worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Fail to shutdown server", slog.Any("error", err))
	}
}
