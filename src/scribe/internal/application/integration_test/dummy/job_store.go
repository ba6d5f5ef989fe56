package dummy

import (
	"context"
	"sync"

	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	jobentity "github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
)

var _ jobentity.Store = &JobStore{}

func NewDummyJobStore() *JobStore {
	return &JobStore{
		Unavailable: false,
		State:       make(map[string]jobentity.Job),
	}
}

type JobStore struct {
	Unavailable bool
	State       map[string]jobentity.Job
	mutex       sync.RWMutex
}

func (j *JobStore) GetJob(_ context.Context, jobID string) (jobentity.Job, error) {
	if j.Unavailable {
		return jobentity.Job{}, NetworkFailure
	}

	j.mutex.RLock()
	defer j.mutex.RUnlock()

	job, ok := j.State[jobID]
	if !ok {
		return jobentity.Job{}, NotFound
	}

	return job, nil
}

func (j *JobStore) SetJob(_ context.Context, job jobentity.Job) error {
	if j.Unavailable {
		return NetworkFailure
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	j.State[job.ID] = job
	return nil
}

func (j *JobStore) UpdateJob(ctx context.Context, jobID string, updater jobentity.JobUpdater) error {
	job, err := j.GetJob(ctx, jobID)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to get job")
	}

	updatedJob, err := updater(job)
	if err != nil {
		return cerr.Wrap(err).Error("Job update function failed")
	}

	if updatedJob.ID != jobID {
		return cerr.Error("Job update function changed the job ID")
	}

	return j.SetJob(ctx, updatedJob)
}
