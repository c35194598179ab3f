package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/pkg/protocol"
)

var (
	exportScope string
	exportTitle string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes to a text file",
	Long: `Write a plain-text report of one notepad (--scope notepad --title X),
the current game (default) or every game (--scope all).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(protocol.FuncExport, map[string]any{
			"scope": exportScope,
			"title": exportTitle,
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportScope, "scope", "s", "game", "notepad, game or all")
	exportCmd.Flags().StringVarP(&exportTitle, "title", "t", "", "Notepad to export with --scope notepad")
}
