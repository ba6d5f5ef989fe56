package jobusecase

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/errors/api"
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/job/errors"
	"github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
	"github.com/veedubyou/chord-paper-scribe/src/shared/job/storage"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/jsonlib"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/rabbitmq"
)

const StartJobType = "start_job"

type JobRequestFields struct {
	OriginalURL string `json:"original_url"`
}

// JobRequest keeps any extra fields the client sent so they can be stored
// as job metadata.
type JobRequest = jsonlib.Flatten[JobRequestFields]

type startJobMessage struct {
	JobID string `json:"job_id"`
}

type Usecase struct {
	db        jobentity.Store
	publisher rabbitmq.Publisher
}

func NewUsecase(db jobentity.Store, publisher rabbitmq.Publisher) Usecase {
	return Usecase{
		db:        db,
		publisher: publisher,
	}
}

func (u Usecase) GetJob(ctx context.Context, jobID string) (jobentity.Job, *api.Error) {
	job, err := u.db.GetJob(ctx, jobID)
	if err != nil {
		err = errors.Wrap(err, "Failed to get job from DB")
		switch {
		case markers.Is(err, jobstorage.JobNotFound):
			return jobentity.Job{}, api.CommitError(err,
				joberrors.JobNotFoundCode,
				"The requested job could not be found")

		case markers.Is(err, jobstorage.UnmarshalMark):
			fallthrough
		case markers.Is(err, jobstorage.DefaultErrorMark):
			fallthrough
		default:
			return jobentity.Job{}, api.CommitError(err,
				api.DefaultErrorCode,
				"Unknown Error: Failed to fetch the job")
		}
	}

	return job, nil
}

func (u Usecase) CreateJob(ctx context.Context, request JobRequest) (jobentity.Job, *api.Error) {
	originalURL := request.Defined.OriginalURL
	if _, err := url.ParseRequestURI(originalURL); err != nil {
		err = errors.Wrapf(err, "Invalid original URL %q", originalURL)
		return jobentity.Job{}, api.CommitError(err,
			joberrors.BadJobDataCode,
			"The job needs a valid original_url pointing at the song")
	}

	job := jobentity.NewJob(originalURL)
	for k, v := range request.Extra {
		job.Metadata[k] = v
	}

	err := u.db.SetJob(ctx, job)
	if err != nil {
		err = errors.Wrap(err, "Failed to save new job")
		return jobentity.Job{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown error: Failed to save the job. Please contact the developer")
	}

	err = u.publishStartJob(job.ID)
	if err != nil {
		err = errors.Wrap(err, "Failed to publish start job")
		u.markJobFailed(job.ID, err)
		return jobentity.Job{}, api.CommitError(err,
			joberrors.JobPublishFailure,
			"The job was saved but could not be queued, please try again later")
	}

	return job, nil
}

func (u Usecase) publishStartJob(jobID string) error {
	jsonBytes, err := json.Marshal(startJobMessage{JobID: jobID})
	if err != nil {
		return errors.Wrap(err, "Failed to marshal job ID for queue msg")
	}

	err = u.publisher.Publish(amqp091.Publishing{
		Type: StartJobType,
		Body: jsonBytes,
	})
	if err != nil {
		return errors.Wrap(err, "Failed to publish message to rabbitmq")
	}

	return nil
}

func (u Usecase) markJobFailed(jobID string, jobErr error) {
	updater := func(job jobentity.Job) (jobentity.Job, error) {
		job.Status = jobentity.ErrorStatus
		job.StatusMessage = "The job could not be queued"
		job.StatusDebugLog = jobErr.Error()
		return job, nil
	}

	err := u.db.UpdateJob(context.Background(), jobID, updater)
	if err != nil {
		log.WithField("job_id", jobID).
			WithError(err).
			Error("Failed to mark job as failed in DB")
	}
}
