package dummy

import "github.com/cockroachdb/errors"

var NetworkFailure = errors.New("Network failure")
var NotFound = errors.New("Not found")
