package save_artifacts_to_db

import (
	"context"
	"encoding/json"

	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	jobentity "github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "save_artifacts_to_db"
const ErrorMessage string = "Failed to save artifact URLs to database"

const doneProgress = 100

type JobParams struct {
	job_message.JobIdentifier
	ArtifactURLs map[string]string `json:"artifact_urls"`
}

//counterfeiter:generate . SaveArtifactsJobHandler
type SaveArtifactsJobHandler interface {
	HandleSaveArtifactsToDBJob(message []byte) error
}

func NewJobHandler(jobStore jobentity.Store) JobHandler {
	return JobHandler{
		jobStore: jobStore,
	}
}

type JobHandler struct {
	jobStore jobentity.Store
}

func (s JobHandler) HandleSaveArtifactsToDBJob(message []byte) error {
	params, err := unmarshalMessage(message)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errctx := cerr.Field("job_id", params.JobID)

	updater := func(job jobentity.Job) (jobentity.Job, error) {
		if job.Status != jobentity.ProcessingStatus {
			return jobentity.Job{}, errctx.Field("job_status", job.Status).
				Error("Unexpected - job is not being processed")
		}

		job.ArtifactURLs = params.ArtifactURLs
		job.Status = jobentity.DoneStatus
		job.StatusMessage = "The song has been transcribed"
		job.StatusDebugLog = ""
		job.Progress = doneProgress

		return job, nil
	}

	err = s.jobStore.UpdateJob(context.Background(), params.JobID, updater)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to update job")
	}

	return nil
}

func unmarshalMessage(message []byte) (JobParams, error) {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return JobParams{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errctx := cerr.Field("job_params", params)

	if params.JobID == "" {
		return JobParams{}, errctx.Error("Missing job ID")
	}

	if len(params.ArtifactURLs) == 0 {
		return JobParams{}, errctx.Error("Missing artifact URLs")
	}

	return params, nil
}
