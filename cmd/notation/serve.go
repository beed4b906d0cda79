package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tabnotation/notation/model"
	"github.com/tabnotation/notation/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tab over a read-only JSON API",
	Long:  "Serve the tab over a read-only JSON API. The document is reloaded on SIGHUP and on POST /reload.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Document.Path == "" {
			return errors.New("no document given: use --file or document.path in the config")
		}
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := server.NewMetrics(reg)

		var handle model.Handle
		reloader := server.NewReloader(cfg.Document.Path, &handle, cfg.Document.Options(logger), cfg.Server.ReloadDebounce, metrics)
		if _, err := reloader.Load(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		go func() {
			for {
				select {
				case <-hup:
					reloader.Trigger()
				case <-ctx.Done():
					return
				}
			}
		}()

		srv := server.New(&handle, server.Options{
			Logger:         logger,
			Registry:       reg,
			Metrics:        metrics,
			Reloader:       reloader,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		})
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().StringP("file", "f", "", "Tab document to serve.")
	serveCmd.Flags().String("addr", "localhost:8080", "Address to listen on.")
	rootCmd.AddCommand(serveCmd)
}
