package cmd

import (
	"github.com/spf13/cobra"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/driver"
)

var transcribeFlags pipelineFlags

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <stem.wav>",
	Short: "Transcribe and render a single stem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transcriber, err := transcribeFlags.transcriber()
		if err != nil {
			return err
		}

		// no separation happens here, the stem already exists
		stemDriver := driver.NewDriver(driver.Config{Scheme: transcribeFlags.scheme()},
			nil, transcriber, transcribeFlags.renderer())

		_, err = stemDriver.ProcessStem(cmd.Context(), args[0])
		return err
	},
}

func init() {
	transcribeFlags.registerStageFlags(transcribeCmd)
	rootCmd.AddCommand(transcribeCmd)
}
