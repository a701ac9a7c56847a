package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/bitmap"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool

	cfg config
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "bitmaparchive",
		Short:         "Pack images into compressed bitmap archives",
		Long:          `bitmaparchive converts images to compressed bitmap archives and back, and inspects existing archives.`,
		Version:       bitmap.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if g.verbose {
				level = slog.LevelDebug
			}
			bitmap.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})))

			cfg, err := loadConfig(g.configPath)
			if err != nil {
				return newExitCodeError(err, exitCodeInvalidConfig)
			}
			g.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default $"+configEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log codec selection and sizes")

	rootCmd.AddCommand(newPackCmd(g))
	rootCmd.AddCommand(newUnpackCmd(g))
	rootCmd.AddCommand(newInfoCmd(g))
	return rootCmd
}
