package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/aretw0/notepad"
	"github.com/aretw0/notepad/internal/platform"
	"github.com/aretw0/notepad/pkg/protocol"
)

var (
	verbose    bool
	jsonOut    bool
	rootDir    string
	game       string
	configPath string
	exportDir  string

	cfg       *notepad.Config
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notepad",
	Short: "Per-game notepads for your gaming sessions",
	Long: `Notepad keeps short notes grouped into named notepads, one set per game.
It can run as a CLI or as an assistant plugin speaking JSON over stdio (see "notepad serve").`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		logger, closer, err := platform.NewLogger(cfg.Log, verbose, os.Stderr)
		if err != nil {
			return err
		}
		logCloser = closer
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
			logCloser = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Notes directory (default: discovered from the working directory, then the config)")
	rootCmd.PersistentFlags().StringVarP(&game, "game", "g", "", "Game namespace (default \"General\")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: "+platform.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&exportDir, "export-dir", "", "Directory exports are written to")
}

// loadConfig reads --config, or the default config file when present.
func loadConfig() (*notepad.Config, error) {
	if configPath != "" {
		return notepad.LoadConfig(configPath)
	}
	if p := platform.DefaultConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return notepad.LoadConfig(p)
		}
	}
	return notepad.DefaultConfig(), nil
}

// openService opens the notes root named by --root, the one found above the
// working directory, or the configured one, in that order.
func openService() *notepad.Service {
	root := rootDir
	if root == "" {
		if wd, err := os.Getwd(); err == nil {
			if found, err := notepad.FindRoot(wd, cfg.SystemDir); err == nil {
				root = found
			}
		}
	}

	opts := []notepad.Option{
		notepad.WithConfig(cfg),
		notepad.WithLogger(slog.Default()),
	}
	if exportDir != "" {
		opts = append(opts, notepad.WithExportDir(exportDir))
	}

	svc, err := notepad.New(root, opts...)
	if err != nil {
		fatal("Failed to open notes", err)
	}
	return svc
}

// run executes one command through the plugin dispatcher so the CLI and the
// assistant see the same messages.
func run(name string, params map[string]any) {
	if game != "" {
		params["current_game"] = game
	}
	svc := openService()
	d := protocol.NewDispatcher(svc, slog.Default())
	resp := d.Handle(context.Background(), protocol.Command{Func: name, Params: params})

	if jsonOut {
		printJSON(resp)
	} else if resp.Success {
		fmt.Println(resp.Message)
	} else {
		fmt.Fprintln(os.Stderr, resp.Message)
	}
	if !resp.Success {
		exit(1)
	}
}

func printJSON(v any) {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("Error encoding JSON", err)
	}
	fmt.Println(string(data))
}
