package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/pkg/protocol"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as an assistant plugin over stdin/stdout",
	Long: `Read {"tool_calls": [...]} requests from stdin and answer each command with a
JSON envelope followed by the <<END>> marker. Logs go to stderr or the configured log file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := openService()
		server := protocol.NewServer(protocol.NewDispatcher(svc, slog.Default()), slog.Default())
		if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil {
			fatal("Plugin session ended", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
