package jobstorage

import (
	"github.com/cockroachdb/errors"
)

var (
	DefaultErrorMark = errors.New("job storage error")
	JobNotFound      = errors.New("job not found")
	IDEmptyMark      = errors.New("job ID is empty")
	MarshalMark      = errors.New("job could not be marshalled")
	UnmarshalMark    = errors.New("job could not be unmarshalled")
)
