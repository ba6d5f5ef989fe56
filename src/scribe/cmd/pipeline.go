package cmd

import (
	"github.com/spf13/cobra"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/driver"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/executor"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/pitch"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/render"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/separate"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/transcribe"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config"
	"github.com/veedubyou/chord-paper-scribe/src/shared/config/envvar"
)

// pipelineFlags are shared by the commands that run some of the local stages.
type pipelineFlags struct {
	outputDir    string
	engine       string
	splitType    string
	stemExt      string
	cleanPaths   bool
	preview      bool
	peak         string
	sampleRate   int
	spleeterPath string
	demucsPath   string
}

func (p *pipelineFlags) registerStageFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&p.cleanPaths, "clean-paths", false, "name outputs vocals.midi instead of vocals.midi.midi")
	cmd.Flags().BoolVar(&p.preview, "preview", false, "also write a PNG preview next to every PDF")
	cmd.Flags().StringVar(&p.peak, "peak", string(pitch.MagnitudeSelector), "per frame peak choice: magnitude or frequency")
	cmd.Flags().IntVar(&p.sampleRate, "sample-rate", pitch.DefaultSampleRate, "rate stems are resampled to before pitch tracking, 0 keeps the native rate")
}

func (p *pipelineFlags) registerSeparationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.outputDir, "output", "o", "./output", "directory the stems and transcriptions are written to")
	cmd.Flags().StringVar(&p.engine, "engine", string(separate.SpleeterEngine), "separation engine: spleeter or demucs")
	cmd.Flags().StringVar(&p.splitType, "split", string(separate.SplitFiveStemsType), "stem split: 2stems, 4stems or 5stems")
	cmd.Flags().StringVar(&p.stemExt, "stem-ext", driver.DefaultStemExt, "extension of the stem files to transcribe")
	cmd.Flags().StringVar(&p.spleeterPath, "spleeter", "", "spleeter binary, defaults to $"+envvar.SPLEETER_BIN_PATH+" then PATH")
	cmd.Flags().StringVar(&p.demucsPath, "demucs", "", "demucs binary, defaults to $"+envvar.DEMUCS_BIN_PATH+" then PATH")
}

func (p *pipelineFlags) scheme() driver.Scheme {
	if p.cleanPaths {
		return driver.CleanScheme
	}

	return driver.LegacyScheme
}

func (p *pipelineFlags) transcriber() (transcribe.Transcriber, error) {
	selector, err := pitch.ParseSelector(p.peak)
	if err != nil {
		return transcribe.Transcriber{}, cerr.Wrap(err).Error("Invalid --peak")
	}

	if p.sampleRate < 0 {
		return transcribe.Transcriber{}, cerr.Field("sample_rate", p.sampleRate).Error("Invalid --sample-rate")
	}

	options := pitch.DefaultOptions()
	options.SampleRate = p.sampleRate

	return transcribe.NewTranscriber(options, selector), nil
}

func (p *pipelineFlags) renderer() render.Renderer {
	return render.NewRenderer(render.Letter, p.preview)
}

func (p *pipelineFlags) separator() (separate.LocalSeparator, error) {
	engine, err := separate.ParseEngine(p.engine)
	if err != nil {
		return separate.LocalSeparator{}, cerr.Wrap(err).Error("Invalid --engine")
	}

	splitType, err := separate.ParseSplitType(p.splitType)
	if err != nil {
		return separate.LocalSeparator{}, cerr.Wrap(err).Error("Invalid --split")
	}

	separatorConfig := separate.Config{
		WorkingDir: p.outputDir,
		Engine:     engine,
		SplitType:  splitType,
	}

	// only look up the binary that will run, the other may not be installed
	switch engine {
	case separate.DemucsEngine:
		separatorConfig.DemucsBinPath = config.BinPath(p.demucsPath, envvar.DEMUCS_BIN_PATH, "demucs")
	default:
		separatorConfig.SpleeterBinPath = config.BinPath(p.spleeterPath, envvar.SPLEETER_BIN_PATH, "spleeter")
	}

	return separate.NewLocalSeparator(separatorConfig, executor.BinaryFileExecutor{})
}

func (p *pipelineFlags) driver() (driver.Driver, error) {
	separator, err := p.separator()
	if err != nil {
		return driver.Driver{}, err
	}

	transcriber, err := p.transcriber()
	if err != nil {
		return driver.Driver{}, err
	}

	return driver.NewDriver(driver.Config{
		OutputDir: p.outputDir,
		StemExt:   p.stemExt,
		Scheme:    p.scheme(),
	}, separator, transcriber, p.renderer()), nil
}
