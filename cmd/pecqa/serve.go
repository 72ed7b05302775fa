package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fyerfyer/pec-qa/api"
	"github.com/fyerfyer/pec-qa/api/handler"
	"github.com/fyerfyer/pec-qa/internal/report"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web form and JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	gin.SetMode(appConfig.Server.Mode)

	a, err := setupApp(cmd.Context(), appConfig, true)
	if err != nil {
		return err
	}
	defer a.Close()

	router := api.SetupRouter(api.Handlers{
		QA:      handler.NewQAHandler(a.qa, a.history, report.NewRenderer()),
		Compute: handler.NewComputeHandler(),
		Web:     handler.NewWebHandler(a.qa, a.history),
		Health:  handler.NewHealthHandler(a.index),
	})

	srv := &http.Server{
		Addr:         appConfig.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 等待终止信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}
