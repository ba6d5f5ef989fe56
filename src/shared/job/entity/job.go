package jobentity

import (
	"time"

	"github.com/google/uuid"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/jsonlib"
)

const (
	InitialProgressPercentage = 5
)

type Status string

const (
	RequestedStatus  Status = "requested"
	ProcessingStatus Status = "processing"
	DoneStatus       Status = "done"
	ErrorStatus      Status = "error"
)

type Job struct {
	ID             string            `json:"id"`
	OriginalURL    string            `json:"original_url"`
	Status         Status            `json:"job_status"`
	StatusMessage  string            `json:"job_status_message"`
	StatusDebugLog string            `json:"job_status_debug_log"`
	Progress       int               `json:"job_progress"`
	ArtifactURLs   map[string]string `json:"artifact_urls"`
	Metadata       map[string]any    `json:"metadata"`
	CreatedAt      time.Time         `json:"created_at"`
}

func NewJob(originalURL string) Job {
	job := Job{
		OriginalURL:  originalURL,
		ArtifactURLs: map[string]string{},
		Metadata:     map[string]any{},
		CreatedAt:    time.Now().UTC(),
	}

	job.CreateID()
	job.InitializeRequest()
	return job
}

func (j Job) IsNew() bool {
	return j.ID == ""
}

func (j *Job) CreateID() {
	if !j.IsNew() {
		panic("Cannot assign an ID to a job that already has one")
	}

	j.ID = uuid.New().String()
}

func (j *Job) InitializeRequest() {
	j.Status = RequestedStatus
	j.StatusMessage = "The transcription job for the audio has been requested"
	j.StatusDebugLog = ""
	j.Progress = InitialProgressPercentage
}

func (j Job) ToMap() (map[string]any, error) {
	return jsonlib.StructToMap(j)
}

func (j *Job) FromMap(m map[string]any) error {
	job, err := jsonlib.MapToStruct[Job](m)
	if err != nil {
		return err
	}

	*j = job
	return nil
}
