package joberrors

import (
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/errors/api"
)

const (
	JobNotFoundCode   = api.ErrorCode("job_not_found")
	BadJobDataCode    = api.ErrorCode("bad_job_data")
	JobPublishFailure = api.ErrorCode("job_publish_failed")
)
