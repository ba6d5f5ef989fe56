package start

import (
	"context"
	"encoding/json"

	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	jobentity "github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "start_job"
const ErrorMessage string = "Failed to start processing the transcription"

const startedProgress = 10

//counterfeiter:generate . StartJobHandler
type StartJobHandler interface {
	HandleStartJob(message []byte) (JobParams, string, error)
}

type JobParams struct {
	job_message.JobIdentifier
}

func NewJobHandler(jobStore jobentity.Store) JobHandler {
	return JobHandler{
		jobStore: jobStore,
	}
}

type JobHandler struct {
	jobStore jobentity.Store
}

// HandleStartJob moves a requested job into processing and returns the URL
// of the song it was created for.
func (d JobHandler) HandleStartJob(message []byte) (JobParams, string, error) {
	params, err := unmarshalMessage(message)
	if err != nil {
		return JobParams{}, "", cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errCtx := cerr.Field("job_id", params.JobID)

	originalURL := ""
	updater := func(job jobentity.Job) (jobentity.Job, error) {
		if job.Status != jobentity.RequestedStatus {
			return jobentity.Job{}, errCtx.Field("job_status", job.Status).
				Error("Job is not in requested status, abort processing to be safe")
		}

		if job.OriginalURL == "" {
			return jobentity.Job{}, errCtx.Error("Job has no original URL")
		}

		job.Status = jobentity.ProcessingStatus
		job.StatusMessage = "The song is being separated and transcribed"
		job.Progress = startedProgress
		originalURL = job.OriginalURL

		return job, nil
	}

	err = d.jobStore.UpdateJob(context.Background(), params.JobID, updater)
	if err != nil {
		return JobParams{}, "", errCtx.Wrap(err).Error("Failed to set the job status")
	}

	return params, originalURL, nil
}

func unmarshalMessage(message []byte) (JobParams, error) {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return JobParams{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	if params.JobID == "" {
		return JobParams{}, cerr.Field("job_params", params).Error("Missing job ID")
	}

	return params, nil
}
