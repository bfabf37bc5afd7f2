package http

import (
	"database/sql"
	"net/http"

	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type jobsHandler struct {
	jobsUC jobs.UseCase
	log    logger.Logger
}

func NewJobsHandler(jobsUC jobs.UseCase, log logger.Logger) jobs.Handler {
	return &jobsHandler{
		jobsUC: jobsUC,
		log:    log,
	}
}

func (h *jobsHandler) GetJobByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID, err := uuid.Parse(c.Param("job_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid job id"})
		}
		job, err := h.jobsUC.GetJob(c.Request().Context(), jobID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
			}
			h.log.Errorf("GetJobByID: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		return c.JSON(http.StatusOK, job)
	}
}
