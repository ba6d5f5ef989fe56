package jobstorage

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/dynamo"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/errors/mark"
)

const (
	JobsTable = "TranscriptionJobs"
)

var _ jobentity.Store = DB{}

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

func (d DB) GetJob(ctx context.Context, jobID string) (jobentity.Job, error) {
	if jobID == "" {
		return jobentity.Job{}, mark.Message(IDEmptyMark, "No job ID was provided")
	}

	value := dbJob{}
	err := d.dynamoDB.Table(JobsTable).
		Get(idKey, jobID).
		OneWithContext(ctx, &value)

	if err != nil {
		switch {
		case markers.Is(err, UnmarshalMark):
			return jobentity.Job{}, errors.Wrap(err, "Failed to fetch job")
		case errors.Is(err, dynamo.ErrNotFound):
			return jobentity.Job{}, mark.Wrap(err, JobNotFound, "Job is not found")
		default:
			return jobentity.Job{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch job")
		}
	}

	job := jobentity.Job{}
	err = job.FromMap(value)
	if err != nil {
		return jobentity.Job{},
			mark.Wrap(err, UnmarshalMark, "Failed to transform DB map back to entity job")
	}

	return job, nil
}

func (d DB) SetJob(ctx context.Context, job jobentity.Job) error {
	if job.ID == "" {
		return mark.Message(IDEmptyMark, "Job ID is not defined")
	}

	dbObject, err := job.ToMap()
	if err != nil {
		return mark.Wrap(err, MarshalMark, "Failed to transform entity job to a generic map object")
	}

	err = d.dynamoDB.Table(JobsTable).PutMap(dbObject).RunWithContext(ctx)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to put the job in the DB")
	}

	return nil
}

// UpdateJob reads the job, applies updater and writes it back, as long as the
// stored status has not moved on in between.
func (d DB) UpdateJob(ctx context.Context, jobID string, updater jobentity.JobUpdater) error {
	job, err := d.GetJob(ctx, jobID)
	if err != nil {
		return errors.Wrap(err, "Can't find the job")
	}

	updatedJob, err := updater(job)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "The updater failed to make changes to the job")
	}

	if updatedJob.ID != job.ID {
		return mark.Message(IDEmptyMark, "The updater must not change the job ID")
	}

	dbObject, err := updatedJob.ToMap()
	if err != nil {
		return mark.Wrap(err, MarshalMark, "Failed to transform entity job to a generic map object")
	}

	err = d.dynamoDB.Table(JobsTable).
		PutMap(dbObject).
		If("$ = ?", statusKey, string(job.Status)).
		RunWithContext(ctx)

	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to update the job in the DB")
	}

	return nil
}
