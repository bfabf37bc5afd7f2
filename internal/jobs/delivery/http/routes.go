package http

import (
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/labstack/echo/v4"
)

func MapJobsRoutes(jobsGroup *echo.Group, h jobs.Handler) {
	jobsGroup.GET("/:job_id", h.GetJobByID())
}
