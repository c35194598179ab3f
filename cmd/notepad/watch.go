package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	notepadlifecycle "github.com/aretw0/notepad/pkg/adapters/lifecycle"
	"github.com/aretw0/notepad/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print notepad changes as they happen",
	Long: `Watch the notes directory and print one line per created, modified or deleted notepad until interrupted.
With --game only that game's notepads are reported.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := openService()
		events, err := svc.Watch(ctx)
		if err != nil {
			fatal("Failed to watch notes", err)
		}

		var opts []notepadlifecycle.SourceOption
		if game != "" {
			opts = append(opts, notepadlifecycle.WithGames(svc.Resolver(), game))
		}
		source := notepadlifecycle.NewSource(events, opts...)
		if err := source.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		for e := range source.Events() {
			if ev, ok := e.(core.Event); ok && jsonOut {
				printJSON(ev)
				continue
			}
			fmt.Println(e.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
