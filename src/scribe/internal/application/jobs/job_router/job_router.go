package job_router

import (
	"context"
	"encoding/json"

	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/save_artifacts_to_db"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/start"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/jobs/transcribe_song"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	jobentity "github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/rabbitmq"
)

func NewJobRouter(
	jobStore jobentity.Store,
	publisher rabbitmq.Publisher,
	startHandler start.StartJobHandler,
	transcribeHandler transcribe_song.TranscribeJobHandler,
	saveArtifactsHandler save_artifacts_to_db.SaveArtifactsJobHandler,
) JobRouter {
	return JobRouter{
		jobStore:             jobStore,
		publisher:            publisher,
		startHandler:         startHandler,
		transcribeHandler:    transcribeHandler,
		saveArtifactsHandler: saveArtifactsHandler,
	}
}

// JobRouter dispatches each queue message to its handler and publishes the
// message for the following stage. A failed stage marks the job as errored.
type JobRouter struct {
	jobStore             jobentity.Store
	publisher            rabbitmq.Publisher
	startHandler         start.StartJobHandler
	transcribeHandler    transcribe_song.TranscribeJobHandler
	saveArtifactsHandler save_artifacts_to_db.SaveArtifactsJobHandler
}

func (j JobRouter) HandleMessage(message amqp091.Delivery) error {
	switch message.Type {
	case start.JobType:
		return j.handleStartJob(message)
	case transcribe_song.JobType:
		return j.handleTranscribeJob(message)
	case save_artifacts_to_db.JobType:
		return j.handleSaveArtifactsJob(message)
	default:
		return cerr.Field("message_type", message.Type).Error("Unrecognized message type")
	}
}

func (j JobRouter) handleStartJob(message amqp091.Delivery) error {
	params, originalURL, err := j.startHandler.HandleStartJob(message.Body)
	if err != nil {
		return j.markJobFailed(message.Body, start.ErrorMessage, err)
	}

	nextParams := transcribe_song.JobParams{
		JobIdentifier:    params.JobIdentifier,
		SavedOriginalURL: originalURL,
	}

	if err := j.publish(transcribe_song.JobType, nextParams); err != nil {
		return j.markJobFailed(message.Body, start.ErrorMessage, err)
	}

	return nil
}

func (j JobRouter) handleTranscribeJob(message amqp091.Delivery) error {
	params, artifactURLs, err := j.transcribeHandler.HandleTranscribeJob(message.Body)
	if err != nil {
		return j.markJobFailed(message.Body, transcribe_song.ErrorMessage, err)
	}

	nextParams := save_artifacts_to_db.JobParams{
		JobIdentifier: params.JobIdentifier,
		ArtifactURLs:  artifactURLs,
	}

	if err := j.publish(save_artifacts_to_db.JobType, nextParams); err != nil {
		return j.markJobFailed(message.Body, transcribe_song.ErrorMessage, err)
	}

	return nil
}

func (j JobRouter) handleSaveArtifactsJob(message amqp091.Delivery) error {
	err := j.saveArtifactsHandler.HandleSaveArtifactsToDBJob(message.Body)
	if err != nil {
		return j.markJobFailed(message.Body, save_artifacts_to_db.ErrorMessage, err)
	}

	return nil
}

func (j JobRouter) publish(jobType string, params any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return cerr.Field("job_type", jobType).Wrap(err).Error("Failed to marshal job params")
	}

	err = j.publisher.Publish(amqp091.Publishing{
		Type: jobType,
		Body: body,
	})
	if err != nil {
		return cerr.Field("job_type", jobType).Wrap(err).Error("Failed to publish next job")
	}

	return nil
}

// markJobFailed records the failure on the job when the message names one,
// and always hands back the original error.
func (j JobRouter) markJobFailed(body []byte, statusMessage string, jobErr error) error {
	identifier := job_message.JobIdentifier{}
	if err := json.Unmarshal(body, &identifier); err != nil || identifier.JobID == "" {
		log.Error("Cannot mark job as failed, message has no job ID")
		return jobErr
	}

	updater := func(job jobentity.Job) (jobentity.Job, error) {
		job.Status = jobentity.ErrorStatus
		job.StatusMessage = statusMessage
		job.StatusDebugLog = jobErr.Error()
		return job, nil
	}

	if err := j.jobStore.UpdateJob(context.Background(), identifier.JobID, updater); err != nil {
		cerr.Log(cerr.Field("job_id", identifier.JobID).Wrap(err).Error("Failed to mark job as failed"))
	}

	return jobErr
}
