package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/pkg/protocol"
)

var readCmd = &cobra.Command{
	Use:   "read [title]",
	Short: "Show every entry of a notepad",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(protocol.FuncReadNote, map[string]any{"title": args[0]})
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
