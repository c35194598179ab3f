package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notepad"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a notes directory",
	Long:  `Create a notes directory with its system dir, so commands run inside it find it without --root.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := rootDir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				fatal("Failed to get CWD", err)
			}
			dir = cwd
		}

		path, err := notepad.Init(dir, notepad.WithConfig(cfg), notepad.WithLogger(slog.Default()))
		if err != nil {
			fatal("Failed to initialize notes directory", err)
		}
		fmt.Println("Initialized notes directory in", path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
