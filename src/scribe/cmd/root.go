package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "scribe",
	Short:         "Separates songs into stems and writes them down as MIDI and sheets",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetHandler(cli.New(os.Stderr))
		if verbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log external tool output and other debug detail")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cerr.Log(err)
		stop()
		os.Exit(1)
	}
}
