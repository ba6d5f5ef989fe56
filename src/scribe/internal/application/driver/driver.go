package driver

import (
	"context"
	"path/filepath"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/render"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/separate"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/transcribe"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

type Config struct {
	OutputDir string
	StemExt   string
	Scheme    Scheme
}

type StemReport struct {
	StemPath string
	MIDI     transcribe.MIDIResult
	Notation transcribe.NotationResult
	Render   render.Result
}

// Files lists the artifacts that exist on disk for this stem, the stem
// itself included.
func (s StemReport) Files() []string {
	files := []string{s.StemPath}
	if !s.MIDI.Skipped {
		files = append(files, s.MIDI.Path)
	}

	files = append(files, s.Notation.Path, s.Render.PDFPath)
	if s.Render.PNGPath != "" {
		files = append(files, s.Render.PNGPath)
	}

	return files
}

type Report struct {
	AudioPath  string
	OutputRoot string
	Stems      []StemReport
}

func (r Report) Files() []string {
	var files []string
	for _, stem := range r.Stems {
		files = append(files, stem.Files()...)
	}

	return files
}

type Driver struct {
	config      Config
	separator   separate.Separator
	transcriber transcribe.Transcriber
	renderer    render.Renderer
}

func NewDriver(config Config, separator separate.Separator, transcriber transcribe.Transcriber, renderer render.Renderer) Driver {
	if config.StemExt == "" {
		config.StemExt = DefaultStemExt
	}

	if config.Scheme == "" {
		config.Scheme = LegacyScheme
	}

	return Driver{
		config:      config,
		separator:   separator,
		transcriber: transcriber,
		renderer:    renderer,
	}
}

// ProcessSong separates the song into stems under the output dir and then
// transcribes and renders every stem found. The first failing stem stops the
// run.
func (d Driver) ProcessSong(ctx context.Context, audioPath string) (Report, error) {
	return d.ProcessSongInto(ctx, audioPath, d.config.OutputDir)
}

func (d Driver) ProcessSongInto(ctx context.Context, audioPath string, outputDir string) (Report, error) {
	errctx := cerr.Fields(cerr.F{
		"audio_path": audioPath,
		"output_dir": outputDir,
	})

	logger := log.WithFields(log.Fields{
		"audioPath": audioPath,
		"outputDir": outputDir,
	})

	logger.Info("Separating song into stems")
	root, err := d.separator.Separate(ctx, audioPath, outputDir)
	if err != nil {
		return Report{}, errctx.Wrap(err).Error("Failed to separate song")
	}

	stems, err := FindStems(root, d.config.StemExt)
	if err != nil {
		return Report{}, errctx.Wrap(err).Error("Failed to find stems")
	}

	logger.WithField("stemCount", len(stems)).Info("Found stems")

	report := Report{
		AudioPath:  audioPath,
		OutputRoot: root,
	}

	for _, stem := range stems {
		if ctx.Err() != nil {
			return Report{}, errctx.Wrap(ctx.Err()).Error("Context cancelled between stems")
		}

		stemReport, err := d.ProcessStem(ctx, stem)
		if err != nil {
			return Report{}, errctx.Wrap(err).Error("Failed to process stem")
		}

		report.Stems = append(report.Stems, stemReport)
	}

	return report, nil
}

// ProcessStem runs the MIDI, notation and render stages for one stem.
func (d Driver) ProcessStem(ctx context.Context, stemPath string) (StemReport, error) {
	errctx := cerr.Field("stem_path", stemPath)
	paths := DerivePaths(stemPath, d.config.Scheme)

	log.Infof("Transcribing %s to MIDI and sheet music...", stemPath)

	midiResult, err := d.transcriber.ToMIDI(ctx, stemPath, paths.MIDI)
	if err != nil {
		return StemReport{}, errctx.Wrap(err).Error("Failed to transcribe to MIDI")
	}

	notationResult, err := d.transcriber.ToNotation(ctx, stemPath, paths.XML)
	if err != nil {
		return StemReport{}, errctx.Wrap(err).Error("Failed to transcribe to notation")
	}

	renderResult, err := d.renderer.RenderFile(ctx, paths.XML, paths.PDF)
	if err != nil {
		return StemReport{}, errctx.Wrap(err).Error("Failed to render sheet")
	}

	log.Infof("MIDI and sheet music saved for %s.", filepath.Base(stemPath))

	return StemReport{
		StemPath: stemPath,
		MIDI:     midiResult,
		Notation: notationResult,
		Render:   renderResult,
	}, nil
}
