// File: cmd/hioload-frame/serve.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The serve command runs the event loop with the demo echo handler and,
// when configured, a Prometheus scrape endpoint on a side goroutine.

package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-frame/api"
	"github.com/momentics/hioload-frame/server"
)

func serveCmd() *cobra.Command {
	var (
		configPath  string
		listenAddr  string
		backend     string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the framed echo server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.DefaultConfig()
			if configPath != "" {
				loaded, err := server.LoadConfig(configPath)
				if err != nil {
					return errors.Wrap(err, "load config")
				}
				cfg = loaded
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			if backend != "" {
				cfg.Backend = backend
			}
			if metricsAddr != "" {
				cfg.MetricsAddr = metricsAddr
			}

			// Placeholder payload handling: echo the request back.
			echo := api.HandlerFunc(func(req []byte) ([]byte, error) {
				return req, nil
			})

			srv, err := server.New(cfg, echo)
			if err != nil {
				return errors.Wrap(err, "initialize server")
			}

			if cfg.MetricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", srv.Metrics().Handler())
				go func() {
					if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
						slog.Error("metrics endpoint failed", "error", err)
					}
				}()
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				slog.Info("shutting down", "signal", sig.String())
				srv.Shutdown()
			}()

			return srv.Run()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "TCP listen address (overrides config)")
	cmd.Flags().StringVar(&backend, "backend", "", "readiness backend: epoll or poll")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus scrape address")

	return cmd
}
