package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/pkg/protocol"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [title]",
	Short: "Delete a notepad",
	Long:  `Delete a whole notepad. This is not recorded in the undo buffer.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(protocol.FuncDeleteNote, map[string]any{"title": args[0]})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
