package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	handler "github.com/ashiknm/dsa-backend/api"
	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/logger"
)

func main() {
	cfg := config.GetCached()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.IsProduction())
	defer logger.Sync()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L().Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	// 优雅停机：等待信号，排空在途请求后关闭连接池
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.L().Error("forced shutdown", zap.Error(err))
	}

	if err := database.ClosePool(); err != nil {
		logger.L().Error("failed to close database pool", zap.Error(err))
	}

	logger.L().Info("server stopped")
}
