package separate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/executor"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/working_dir"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const (
	DemucsModel = "htdemucs"
	StemCodec   = "wav"
)

var spleeterParamMap = map[SplitType]string{
	SplitTwoStemsType:  "spleeter:2stems",
	SplitFourStemsType: "spleeter:4stems",
	SplitFiveStemsType: "spleeter:5stems",
}

//counterfeiter:generate . Separator
type Separator interface {
	// Separate writes the stems of audioPath somewhere under outputDir and
	// returns the root of the tree to search for them.
	Separate(ctx context.Context, audioPath string, outputDir string) (string, error)
}

var _ Separator = LocalSeparator{}

type Config struct {
	WorkingDir      string
	SpleeterBinPath string
	DemucsBinPath   string
	Engine          Engine
	SplitType       SplitType
}

func NewLocalSeparator(config Config, executor executor.Executor) (LocalSeparator, error) {
	workingDir, err := working_dir.NewWorkingDir(config.WorkingDir)
	if err != nil {
		return LocalSeparator{}, cerr.Wrap(err).Error("Failed to convert working dir to absolute format")
	}

	if _, err := StemNames(config.Engine, config.SplitType); err != nil {
		return LocalSeparator{}, cerr.Wrap(err).Error("Unsupported separation settings")
	}

	return LocalSeparator{
		workingDir:      workingDir,
		spleeterBinPath: config.SpleeterBinPath,
		demucsBinPath:   config.DemucsBinPath,
		engine:          config.Engine,
		splitType:       config.SplitType,
		executor:        executor,
	}, nil
}

type LocalSeparator struct {
	workingDir      working_dir.WorkingDir
	spleeterBinPath string
	demucsBinPath   string
	engine          Engine
	splitType       SplitType
	executor        executor.Executor
}

func (l LocalSeparator) Separate(ctx context.Context, audioPath string, outputDir string) (string, error) {
	absAudioPath, err := filepath.Abs(audioPath)
	if err != nil {
		return "", cerr.Wrap(err).Error("Cannot convert source path to absolute format")
	}

	errctx := cerr.Field("audio_path", absAudioPath)

	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", errctx.Wrap(err).Error("Cannot convert destination path to absolute format")
	}

	if ctx.Err() != nil {
		return "", errctx.Wrap(ctx.Err()).Error("Context cancelled before separation could happen")
	}

	switch l.engine {
	case DemucsEngine:
		args, err := DemucsArgs(l.splitType, absAudioPath, absOutputDir)
		if err != nil {
			return "", errctx.Wrap(err).Error("Failed to build demucs arguments")
		}

		if err := l.run("demucs", l.demucsBinPath, args); err != nil {
			return "", errctx.Field("output_dir", absOutputDir).
				Wrap(err).Error("Failed to execute demucs")
		}

	default:
		args, err := SpleeterArgs(l.splitType, absAudioPath, absOutputDir)
		if err != nil {
			return "", errctx.Wrap(err).Error("Failed to build spleeter arguments")
		}

		if err := l.run("spleeter", l.spleeterBinPath, args); err != nil {
			return "", errctx.Field("output_dir", absOutputDir).
				Wrap(err).Error("Failed to execute spleeter")
		}
	}

	return absOutputDir, nil
}

func (l LocalSeparator) run(name string, binPath string, args []string) error {
	logger := log.WithFields(log.Fields{
		"engine":     name,
		"splitType":  l.splitType,
		"workingDir": l.workingDir,
	})

	logger.Infof("Running %s command", name)

	errctx := cerr.Field(name+"_bin_path", binPath).Field(name+"_args", args)

	cmd := l.executor.Command(binPath, args...)
	cmd.SetDir(l.workingDir.Root())

	output, err := cmd.CombinedOutput()
	if err != nil {
		return errctx.Field(name+"_output", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Error occurred while running %s: %s", name, string(output)))
	}

	logger.Debug(string(output))
	logger.Infof("Finished %s command", name)

	return nil
}

func SpleeterArgs(splitType SplitType, sourcePath string, destPath string) ([]string, error) {
	splitParam, ok := spleeterParamMap[splitType]
	if !ok {
		return nil, cerr.Field("split_type", splitType).Error("Invalid split type passed in!")
	}

	return []string{"separate", "-p", splitParam, "-o", destPath, "-c", StemCodec, sourcePath}, nil
}

func DemucsArgs(splitType SplitType, sourcePath string, destPath string) ([]string, error) {
	args := []string{"-o", destPath, "-n", DemucsModel}

	switch splitType {
	case SplitTwoStemsType:
		args = append(args, "--two-stems", "vocals")
	case SplitFourStemsType:
	default:
		return nil, cerr.Field("split_type", splitType).Error("Demucs can only split into 2 or 4 stems")
	}

	return append(args, sourcePath), nil
}

// StemDir is where the engine puts the stems of sourcePath under destPath.
func StemDir(engine Engine, sourcePath string, destPath string) string {
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	if engine == DemucsEngine {
		return filepath.Join(destPath, DemucsModel, name)
	}

	return filepath.Join(destPath, name)
}
