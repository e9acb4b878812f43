// Package cli implements the sfinfo command line tool.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aspect-build/sndfile-go"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sfinfo",
		Short: "Inspect, tag and convert audio files with libsndfile",
		Long: `sfinfo - inspect, tag and convert audio files through libsndfile.

All file access goes through Go streams via libsndfile's virtual I/O.

Commands:
  - formats: List the containers and encodings libsndfile supports
  - info: Show format, length and tags of audio files
  - convert: Re-encode an audio file into another container or encoding
  - tag: Read or set string tags on an audio file`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
			sndfile.SetLogger(logger)
		},
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newFormatsCmd())
	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newTagCmd())
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
