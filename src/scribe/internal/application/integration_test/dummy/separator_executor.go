package dummy

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/audio"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/executor"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/separate"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

const (
	StemSampleRate = 22050
	StemDuration   = 250 * time.Millisecond
)

// StemTones is the pitch written into each stem. Stems that are missing get
// silence.
var StemTones = map[string]float64{
	"vocals": 440,
	"other":  329.63,
	"bass":   196,
}

var _ executor.Executor = &SeparatorExecutor{}

func NewDummySeparatorExecutor() *SeparatorExecutor {
	return &SeparatorExecutor{}
}

// SeparatorExecutor pretends to be spleeter or demucs. It writes short sine
// or silent WAVs into the layout the real binary would produce.
type SeparatorExecutor struct {
	Fail     bool
	Output   string
	Commands [][]string
	Dirs     []string
	mutex    sync.Mutex
}

func (s *SeparatorExecutor) Command(name string, arg ...string) executor.Command {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.Commands = append(s.Commands, append([]string{name}, arg...))

	return &separatorCommand{parent: s, args: arg}
}

func (s *SeparatorExecutor) CommandCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.Commands)
}

type separatorCommand struct {
	parent *SeparatorExecutor
	args   []string
}

func (c *separatorCommand) SetDir(dir string) {
	c.parent.mutex.Lock()
	defer c.parent.mutex.Unlock()

	c.parent.Dirs = append(c.parent.Dirs, dir)
}

func (c *separatorCommand) CombinedOutput() ([]byte, error) {
	if c.parent.Fail {
		return []byte(c.parent.Output), cerr.Error("exit status 1")
	}

	engine, splitType, source, dest := parseArgs(c.args)

	if _, err := os.Stat(source); err != nil {
		return []byte("source file not found"), cerr.Wrap(err).Error("exit status 1")
	}

	stems, err := separate.StemNames(engine, splitType)
	if err != nil {
		return []byte("unsupported split"), err
	}

	stemDir := separate.StemDir(engine, source, dest)
	if err := os.MkdirAll(stemDir, os.ModePerm); err != nil {
		return nil, err
	}

	for _, stem := range stems {
		buffer := audio.Silence(StemSampleRate, StemDuration)
		if tone, ok := StemTones[stem]; ok {
			buffer = audio.Sine(tone, 0.5, StemSampleRate, StemDuration)
		}

		stemPath := filepath.Join(stemDir, stem+".wav")
		if err := audio.WriteWAV(stemPath, buffer, audio.DefaultBitDepth); err != nil {
			return nil, err
		}
	}

	return []byte(c.parent.Output), nil
}

func parseArgs(args []string) (separate.Engine, separate.SplitType, string, string) {
	engine := separate.DemucsEngine
	splitType := separate.SplitFourStemsType
	dest := ""

	for i := 0; i < len(args)-1; i++ {
		switch args[i] {
		case "separate":
			engine = separate.SpleeterEngine
		case "-o":
			dest = args[i+1]
		case "-p":
			splitType = separate.SplitType(args[i+1][len("spleeter:"):])
		case "--two-stems":
			splitType = separate.SplitTwoStemsType
		}
	}

	return engine, splitType, args[len(args)-1], dest
}
