package gateway

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/veedubyou/chord-paper-scribe/src/server/api_error"
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/errors/api"
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/job/errors"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:        http.StatusInternalServerError,
	joberrors.JobNotFoundCode:   http.StatusNotFound,
	joberrors.BadJobDataCode:    http.StatusBadRequest,
	joberrors.JobPublishFailure: http.StatusServiceUnavailable,
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	return c.JSON(statusCode, api_error.JSONAPIError{
		Code:         string(err.ErrorCode),
		Msg:          err.UserMessage,
		ErrorDetails: err.Error(),
	})
}

// BindError is the response for a request body that could not be decoded.
func BindError(c echo.Context, err error, code api.ErrorCode, userMessage string) error {
	err = errors.Wrap(err, "Failed to bind request body")
	return ErrorResponse(c, api.CommitError(err, code, userMessage))
}
