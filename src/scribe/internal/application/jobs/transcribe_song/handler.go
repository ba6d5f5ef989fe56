package transcribe_song

import (
	"context"
	"encoding/json"

	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "transcribe_song"
const ErrorMessage string = "Failed to separate and transcribe the song"

type JobParams struct {
	job_message.JobIdentifier
	SavedOriginalURL string `json:"saved_original_url"`
}

//counterfeiter:generate . TranscribeJobHandler
type TranscribeJobHandler interface {
	HandleTranscribeJob(message []byte) (JobParams, ArtifactURLs, error)
}

func NewJobHandler(transcriber SongTranscriber) JobHandler {
	return JobHandler{
		transcriber: transcriber,
	}
}

type JobHandler struct {
	transcriber SongTranscriber
}

func (t JobHandler) HandleTranscribeJob(message []byte) (JobParams, ArtifactURLs, error) {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return JobParams{}, nil, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errctx := cerr.Field("job_params", params)

	if params.JobID == "" {
		return JobParams{}, nil, errctx.Error("Missing job ID")
	}

	if params.SavedOriginalURL == "" {
		return JobParams{}, nil, errctx.Error("Missing saved original URL")
	}

	artifactURLs, err := t.transcriber.TranscribeSong(context.Background(), params.JobID, params.SavedOriginalURL)
	if err != nil {
		return JobParams{}, nil, errctx.Wrap(err).Error("Failed to transcribe the song")
	}

	return params, artifactURLs, nil
}
