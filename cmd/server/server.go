// Package server implements the long-running API server command.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solarscan/solarscan-go/internal/analysis"
	apiv2 "github.com/solarscan/solarscan-go/internal/api/v2"
	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/datastore"
	"github.com/solarscan/solarscan-go/internal/detector"
	"github.com/solarscan/solarscan-go/internal/httpclient"
	"github.com/solarscan/solarscan-go/internal/imagefetch"
	"github.com/solarscan/solarscan-go/internal/logging"
	"github.com/solarscan/solarscan-go/internal/observability"
	"github.com/solarscan/solarscan-go/internal/predictor"
	"github.com/solarscan/solarscan-go/internal/report"
)

// Command creates the server command for running the analysis API.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the analysis API server",
		Long:  "Start the HTTP API serving damage and performance analysis requests.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the server command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port for the API web server")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of telemetry endpoint")
	cmd.Flags().StringVar(&settings.Detector.Endpoint, "detector", viper.GetString("detector.endpoint"), "URL of the detection model service")
	cmd.Flags().StringVar(&settings.Predictor.Endpoint, "predictor", viper.GetString("predictor.endpoint"), "URL of the generation prediction service")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

// runServer wires the collaborators together and serves until interrupted.
func runServer(settings *conf.Settings) error {
	hc := httpclient.New(nil)

	det := detector.NewClient(&settings.Detector, hc)
	pred := predictor.NewClient(&settings.Predictor, hc)
	fetcher := imagefetch.NewHTTPFetcher(&settings.ImageSource, hc)

	opts := []analysis.Option{}

	if settings.Renderer.Enabled {
		opts = append(opts, analysis.WithRenderer(report.NewHTTPRenderer(&settings.Renderer, hc)))
	}

	store := datastore.New(settings)
	if store != nil {
		if err := store.Open(); err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error("Failed to close datastore", "error", err)
			}
		}()
		opts = append(opts, analysis.WithStore(store))
	}

	var wg sync.WaitGroup
	quit := make(chan struct{})

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}
	opts = append(opts, analysis.WithMetrics(metrics))

	if settings.Telemetry.Enabled {
		endpoint, err := observability.NewEndpoint(settings, metrics)
		if err != nil {
			return fmt.Errorf("initializing telemetry endpoint: %w", err)
		}
		endpoint.Start(&wg, quit)
	}

	service := analysis.New(settings, fetcher, det, pred, opts...)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	controller := apiv2.New(e, settings, service, det, store)
	defer controller.Shutdown()

	go func() {
		addr := ":" + settings.WebServer.Port
		logging.Info("API server starting", "address", addr, "version", settings.Version)
		if err := e.Start(addr); err != nil {
			logging.Error("API server stopped", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logging.Info("Shutting down")
	close(quit)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logging.Error("API server shutdown error", "error", err)
	}
	wg.Wait()
	return nil
}
