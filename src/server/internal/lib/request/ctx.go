package request

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/chord-paper-scribe/src/shared/lib/env"
)

func Context(c echo.Context) context.Context {
	switch env.Get() {
	case env.Production, env.Test:
		return c.Request().Context()

	case env.Development:
		// the request context times out while stepping through a debugger
		return context.Background()

	default:
		panic("Unrecognized environment")
	}
}
