package transcribe_song

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/apex/log"
	cloudstorage "github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/cloud_storage/entity"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/driver"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/storagepath"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/working_dir"
)

const OriginalArtifactKey = "original"

const defaultOriginalName = "original.mp3"

// ArtifactURLs maps a file's path relative to the job's output to its
// remote URL.
type ArtifactURLs = map[string]string

func NewSongTranscriber(songDriver driver.Driver, fileStore cloudstorage.FileStore, pathGenerator storagepath.Generator, workingDirStr string) (SongTranscriber, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return SongTranscriber{}, cerr.Field("working_dir_str", workingDirStr).
			Wrap(err).Error("Failed to create working dir")
	}

	return SongTranscriber{
		driver:        songDriver,
		fileStore:     fileStore,
		pathGenerator: pathGenerator,
		workingDir:    workingDir,
	}, nil
}

type SongTranscriber struct {
	driver        driver.Driver
	fileStore     cloudstorage.FileStore
	pathGenerator storagepath.Generator
	workingDir    working_dir.WorkingDir
}

// TranscribeSong pulls the original down from the file store, runs the whole
// pipeline over it locally and uploads everything it produced.
func (s SongTranscriber) TranscribeSong(ctx context.Context, jobID string, savedOriginalURL string) (ArtifactURLs, error) {
	errctx := cerr.Field("job_id", jobID).Field("saved_original_url", savedOriginalURL)

	tempDir, cleanUpTempDir, err := s.workingDir.MakeTempDir("transcribe-*")
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to make a temp dir")
	}
	defer cleanUpTempDir()

	log.Info("Reading original song from remote file store")
	contents, err := s.fileStore.GetFile(ctx, savedOriginalURL)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to get the original song from the file store")
	}

	originalName := originalFileName(savedOriginalURL)
	originalPath := filepath.Join(tempDir, OriginalArtifactKey, originalName)
	if err := os.MkdirAll(filepath.Dir(originalPath), os.ModePerm); err != nil {
		return nil, errctx.Wrap(err).Error("Failed to create dir for the original song")
	}

	if err := os.WriteFile(originalPath, contents, 0644); err != nil {
		return nil, errctx.Wrap(err).Error("Failed to write the original song to disk")
	}

	outputDir := filepath.Join(tempDir, "output")
	report, err := s.driver.ProcessSongInto(ctx, originalPath, outputDir)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to process the song")
	}

	artifactURLs := ArtifactURLs{}

	originalURL := s.pathGenerator.OriginalPath(jobID, originalName)
	if err := s.fileStore.WriteFile(ctx, originalURL, contents); err != nil {
		return nil, errctx.Wrap(err).Error("Failed to upload the original song")
	}
	artifactURLs[OriginalArtifactKey] = originalURL

	log.WithField("fileCount", len(report.Files())).Info("Uploading artifacts to remote file store")
	for _, file := range report.Files() {
		relativePath, err := filepath.Rel(outputDir, file)
		if err != nil {
			return nil, errctx.Field("file", file).Wrap(err).Error("Artifact is outside of the output dir")
		}

		fileContents, err := os.ReadFile(file)
		if err != nil {
			return nil, errctx.Field("file", file).Wrap(err).Error("Failed to read artifact")
		}

		key := filepath.ToSlash(relativePath)
		artifactURL := s.pathGenerator.GeneratePath(jobID, key)
		if err := s.fileStore.WriteFile(ctx, artifactURL, fileContents); err != nil {
			return nil, errctx.Field("file", file).Wrap(err).Error("Failed to upload artifact")
		}

		artifactURLs[key] = artifactURL
	}

	return artifactURLs, nil
}

func originalFileName(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return defaultOriginalName
	}

	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return defaultOriginalName
	}

	return name
}
