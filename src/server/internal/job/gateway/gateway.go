package jobgateway

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/errors/api"
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/errors/gateway"
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/job/errors"
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/job/usecase"
	"github.com/veedubyou/chord-paper-scribe/src/server/internal/lib/request"
)

type Gateway struct {
	usecase jobusecase.Usecase
}

func NewGateway(usecase jobusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) GetJob(c echo.Context, jobID string) error {
	ctx := request.Context(c)

	job, apiErr := g.usecase.GetJob(ctx, jobID)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to get job")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, job)
}

func (g Gateway) CreateJob(c echo.Context) error {
	ctx := request.Context(c)

	jobRequest := jobusecase.JobRequest{}
	err := c.Bind(&jobRequest)
	if err != nil {
		return gateway.BindError(c, err,
			joberrors.BadJobDataCode,
			"The job data received was malformed. Please contact the developer")
	}

	job, apiErr := g.usecase.CreateJob(ctx, jobRequest)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, job)
}
