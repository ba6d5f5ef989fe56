package job_test

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rabbitmq/amqp091-go"
	jobentity "github.com/veedubyou/chord-paper-scribe/src/shared/job/entity"
	jobstorage "github.com/veedubyou/chord-paper-scribe/src/shared/job/storage"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/errors/mark"
)

type memoryJobStore struct {
	jobs  map[string]jobentity.Job
	mutex sync.Mutex
}

func newMemoryJobStore() *memoryJobStore {
	return &memoryJobStore{jobs: map[string]jobentity.Job{}}
}

func (m *memoryJobStore) GetJob(_ context.Context, jobID string) (jobentity.Job, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return jobentity.Job{}, mark.Message(jobstorage.JobNotFound, "Job is not found")
	}

	return job, nil
}

func (m *memoryJobStore) SetJob(_ context.Context, job jobentity.Job) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.jobs[job.ID] = job
	return nil
}

func (m *memoryJobStore) UpdateJob(ctx context.Context, jobID string, updater jobentity.JobUpdater) error {
	job, err := m.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	job, err = updater(job)
	if err != nil {
		return err
	}

	return m.SetJob(ctx, job)
}

type recordingPublisher struct {
	unavailable bool
	messages    []amqp091.Publishing
}

func (r *recordingPublisher) Publish(msg amqp091.Publishing) error {
	if r.unavailable {
		return errors.New("connection refused")
	}

	r.messages = append(r.messages, msg)
	return nil
}
