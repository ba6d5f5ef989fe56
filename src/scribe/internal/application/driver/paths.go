package driver

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

const DefaultStemExt = ".wav"

type Scheme string

const (
	// LegacyScheme substitutes extensions the way the first scripts did,
	// which leaves a doubled extension: vocals.wav -> vocals.midi.midi.
	LegacyScheme Scheme = "legacy"
	// CleanScheme swaps only the trailing extension: vocals.wav -> vocals.midi.
	CleanScheme Scheme = "clean"
)

type ArtifactPaths struct {
	MIDI string
	XML  string
	PDF  string
}

func DerivePaths(stemPath string, scheme Scheme) ArtifactPaths {
	if scheme == CleanScheme {
		base := strings.TrimSuffix(stemPath, filepath.Ext(stemPath))
		return ArtifactPaths{
			MIDI: base + ".midi",
			XML:  base + ".xml",
			PDF:  base + ".pdf",
		}
	}

	xmlPath := strings.ReplaceAll(stemPath, ".wav", ".xml") + ".xml"
	return ArtifactPaths{
		MIDI: strings.ReplaceAll(stemPath, ".wav", ".midi") + ".midi",
		XML:  xmlPath,
		PDF:  strings.ReplaceAll(xmlPath, ".xml", ".pdf"),
	}
}

// FindStems lists every file under root ending in ext, in lexical order.
func FindStems(root string, ext string) ([]string, error) {
	var stems []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ext) {
			stems = append(stems, path)
		}

		return nil
	})

	if err != nil {
		return nil, cerr.Fields(cerr.F{
			"root": root,
			"ext":  ext,
		}).Wrap(err).Error("Failed to walk the separation output")
	}

	sort.Strings(stems)
	return stems, nil
}
