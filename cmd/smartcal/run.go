package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/smartcal/internal/app"
	"github.com/nhle/smartcal/internal/store"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan reminders and raise notifications until interrupted",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		a := openApp(ctx)
		defer a.Close()

		slog.Info("smartcal running", "schedule", a.Config.ScanSchedule(), "backend", a.Config.Storage.Backend)
		err := a.Run(ctx, func(snap store.Snapshot) {
			slog.Debug("calendar reloaded", "notes", len(snap.Notes), "reminders", len(snap.Reminders))
		})
		if err != nil {
			fatal("Scanner failed", err)
		}
	},
}

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and websocket feed alongside the scanner",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		if serveListen != "" {
			cfg.Server.Listen = serveListen
		}
		a := openApp(ctx, app.WithHub())
		defer a.Close()

		if err := a.Serve(ctx); err != nil {
			fatal("Server failed", err)
		}
	},
}

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Interactive month and day view",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		a, err := app.Build(ctx, cfg, app.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to open calendar", err)
		}
		defer a.Close()

		if err := app.RunAgenda(ctx, a); err != nil {
			fatal("Agenda failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd, serveCmd, agendaCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (overrides server.listen)")
}
