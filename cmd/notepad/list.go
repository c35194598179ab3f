package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/pkg/protocol"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notepads of a game",
	Long:  `List the notepads of a game, most recently updated first.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(protocol.FuncListNotes, map[string]any{})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
