package job_message

type JobIdentifier struct {
	JobID string `json:"job_id"`
}
