package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

const defaultAudioFile = "shelter.mp3"

var runFlags pipelineFlags

var runCmd = &cobra.Command{
	Use:   "run [audio-file]",
	Short: "Separate a song and transcribe every stem",
	Long: `Separates the song into stems with spleeter or demucs, then writes a MIDI
file, a MusicXML file and a PDF sheet for every stem found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		audioPath := defaultAudioFile
		if len(args) == 1 {
			audioPath = args[0]
		}

		songDriver, err := runFlags.driver()
		if err != nil {
			return err
		}

		report, err := songDriver.ProcessSong(cmd.Context(), audioPath)
		if err != nil {
			return cerr.Field("audio_path", audioPath).Wrap(err).Error("Failed to process song")
		}

		log.WithFields(log.Fields{
			"stems": len(report.Stems),
			"files": len(report.Files()),
		}).Info("Done")

		return nil
	},
}

func init() {
	runFlags.registerSeparationFlags(runCmd)
	runFlags.registerStageFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
