package separate

import (
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

type SplitType string

const (
	InvalidSplitType   SplitType = ""
	SplitTwoStemsType  SplitType = "2stems"
	SplitFourStemsType SplitType = "4stems"
	SplitFiveStemsType SplitType = "5stems"
)

func ParseSplitType(value string) (SplitType, error) {
	switch SplitType(value) {
	case SplitTwoStemsType, SplitFourStemsType, SplitFiveStemsType:
		return SplitType(value), nil
	default:
		return InvalidSplitType,
			cerr.Field("split_type", value).Error("Value does not match any split type")
	}
}

type Engine string

const (
	InvalidEngine  Engine = ""
	SpleeterEngine Engine = "spleeter"
	DemucsEngine   Engine = "demucs"
)

func ParseEngine(value string) (Engine, error) {
	switch Engine(value) {
	case SpleeterEngine, DemucsEngine:
		return Engine(value), nil
	default:
		return InvalidEngine,
			cerr.Field("engine", value).Error("Value does not match any separation engine")
	}
}

var spleeterStems = map[SplitType][]string{
	SplitTwoStemsType:  {"vocals", "accompaniment"},
	SplitFourStemsType: {"vocals", "drums", "bass", "other"},
	SplitFiveStemsType: {"vocals", "drums", "bass", "piano", "other"},
}

var demucsStems = map[SplitType][]string{
	SplitTwoStemsType:  {"vocals", "no_vocals"},
	SplitFourStemsType: {"drums", "bass", "other", "vocals"},
}

// StemNames lists the stems the engine writes for a split type.
func StemNames(engine Engine, splitType SplitType) ([]string, error) {
	var stems []string
	var ok bool

	switch engine {
	case SpleeterEngine:
		stems, ok = spleeterStems[splitType]
	case DemucsEngine:
		stems, ok = demucsStems[splitType]
	}

	if !ok {
		return nil, cerr.Fields(cerr.F{
			"engine":     engine,
			"split_type": splitType,
		}).Error("Engine does not support this split type")
	}

	return stems, nil
}
