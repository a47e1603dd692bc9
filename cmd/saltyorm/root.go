package main

import (
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/startdusk/saltyorm/internal/config"
)

type rootOptions struct {
	fs afero.Fs

	configDir string
	provider  string
	dsn       string
	verbose   bool
}

// load 读取配置, 命令行参数优先
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	var dirs []string
	if o.configDir != "" {
		dirs = append(dirs, o.configDir)
	}
	cfg, err := config.Load(o.fs, dirs...)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = o.provider
	}
	if cmd.Flags().Changed("dsn") {
		cfg.DSN = o.dsn
	}
	return cfg, cfg.Validate()
}

func (o *rootOptions) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	opts := &rootOptions{fs: fs}
	rootCmd := &cobra.Command{
		Use:           "saltyorm",
		Short:         "Inspect and query tables through saltyorm",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", "", "directory containing .saltyorm.yaml and .env")
	flags.StringVar(&opts.provider, "provider", "", "database provider: sqlite3 or mysql")
	flags.StringVar(&opts.dsn, "dsn", "", "data source name")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every statement")

	rootCmd.AddCommand(newColumnsCommand(opts))
	rootCmd.AddCommand(newCountCommand(opts))
	rootCmd.AddCommand(newSelectCommand(opts))
	rootCmd.AddCommand(newSQLCommand(opts))
	return rootCmd
}
