package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/render"
)

var renderPreview bool

var renderCmd = &cobra.Command{
	Use:   "render <file.xml> <out.pdf>",
	Short: "Render a MusicXML file as a PDF sheet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer := render.NewRenderer(render.Letter, renderPreview)

		result, err := renderer.RenderFile(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		log.WithField("labels", result.LabelCount).Debug("Rendered sheet")
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderPreview, "preview", false, "also write a PNG preview next to the PDF")
	rootCmd.AddCommand(renderCmd)
}
