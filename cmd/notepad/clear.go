package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/pkg/protocol"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the notepads of a game",
	Long: `Move every notepad of the current game (or of all games with --all) into the
undo buffer. Only the latest clear can be restored, with "notepad undo".`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		scope := "game"
		if clearAll {
			scope = "all"
		}
		run(protocol.FuncClear, map[string]any{"scope": scope})
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the notepads removed by the last clear",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(protocol.FuncUndoClear, map[string]any{})
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(undoCmd)
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "Clear every game")
}
