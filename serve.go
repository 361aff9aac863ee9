package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/giorgikontridze/health-intel-dash/internal/api"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the coverage API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := zap.L()

		analyzer, fs, err := newAnalyzer(cfg)
		if err != nil {
			return err
		}

		gin.SetMode(cfg.Server.Mode)
		h := api.NewHandler(analyzer, fs, demandSource(cfg, "", ""), api.Defaults{
			RadiusMiles:    cfg.Analysis.RadiusMiles,
			HeatWeight:     cfg.Analysis.HeatWeight,
			ReportFilename: cfg.Report.Filename,
			ReportSheet:    cfg.Report.Sheet,
		}, log.Named("api"))

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.NewRouter(h, log.Named("http")),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("server starting", zap.Int("port", port), zap.String("data", cfg.Data.Path))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		case <-quit:
		}

		log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info("server exited")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
