package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/syspanel/syspanel/internal/common/logtrace"
	"github.com/syspanel/syspanel/internal/panelsrv/config"
	"github.com/syspanel/syspanel/internal/panelsrv/server"
)

func init() {
	logtrace.InitLogger()
}

type cmdoptions struct {
	configFile string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog := log.With().Str("state", "init").Logger()

	opt := parseFlags()

	slog.Info().Str("config_file", opt.configFile).Msg("loading config file")
	if err := config.LoadConfig(opt.configFile); err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if config.Config().ServerPort == "" {
		return fmt.Errorf("server port not defined")
	}

	s, err := server.CreateNewServer()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	s.MountHandlers()

	// The panel is useless without the identity service; probe it before
	// accepting traffic so a misconfigured endpoint fails fast.
	if err := probeIdentity(ctx, s); err != nil {
		return fmt.Errorf("identity service unreachable: %w", err)
	}

	serverErrors, shutdownServer, err := startPanelServer(ctx, s)
	if err != nil {
		return fmt.Errorf("starting panel server: %w", err)
	}

	// Channel to listen for an interrupt or terminate signal from the OS.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		shutdownServer()
	}

	slog.Info().Msg("server stopped")
	return nil
}

func probeIdentity(ctx context.Context, s *server.PanelServer) error {
	return retry.Do(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return s.Identity.Ping(pingCtx)
	}, retry.Attempts(3), retry.Delay(1*time.Second), retry.DelayType(retry.BackOffDelay))
}

func startPanelServer(ctx context.Context, s *server.PanelServer) (chan error, func(), error) {
	slog := log.With().Str("state", "init").Logger()

	srv := &http.Server{
		Addr:              ":" + config.Config().ServerPort,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		if config.Config().SupportTLS {
			slog.Info().Str("port", config.Config().ServerPort).Msg("server started with TLS")

			tlsConfig, err := createTLSConfig()
			if err != nil {
				serverErrors <- fmt.Errorf("creating TLS config: %w", err)
				return
			}

			listener, err := tls.Listen("tcp", srv.Addr, tlsConfig)
			if err != nil {
				serverErrors <- fmt.Errorf("creating TLS listener: %w", err)
				return
			}

			serverErrors <- srv.Serve(listener)
		} else {
			slog.Info().Str("port", config.Config().ServerPort).Msg("server started")
			serverErrors <- srv.ListenAndServe()
		}
	}()

	shutdown := func() {
		// Give outstanding requests 5 seconds to complete and initiate the shutdown.
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error().Err(err).Msg("could not stop server gracefully")
			if err := srv.Close(); err != nil {
				slog.Error().Err(err).Msg("could not stop server")
			}
		}
	}

	return serverErrors, shutdown, nil
}

// createTLSConfig creates a TLS configuration from the PEM certificates in the config
func createTLSConfig() (*tls.Config, error) {
	cfg := config.Config()

	cert, err := tls.X509KeyPair(cfg.TLSCertPEM, cfg.TLSKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing TLS certificate: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

const DefaultConfigFile = "/etc/syspanel/panelsrv.conf"

func parseFlags() cmdoptions {
	var opt cmdoptions
	flag.StringVar(&opt.configFile, "config", DefaultConfigFile, "Path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
