package http

import (
	"database/sql"
	"net/http"

	"github.com/clipforge/clipforge/internal/filters"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/media/usecase"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type mediaHandler struct {
	mediaUC media.UseCase
	log     logger.Logger
}

func NewMediaHandler(mediaUC media.UseCase, log logger.Logger) media.Handler {
	return &mediaHandler{
		mediaUC: mediaUC,
		log:     log,
	}
}

func (h *mediaHandler) UploadVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing file field"})
		}
		src, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unreadable upload"})
		}
		defer src.Close()

		mimeType := fileHeader.Header.Get("Content-Type")
		video, err := h.mediaUC.UploadVideo(c.Request().Context(), fileHeader.Filename, mimeType, src)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusCreated, video)
	}
}

func (h *mediaHandler) ListVideos() echo.HandlerFunc {
	return func(c echo.Context) error {
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		videos, err := h.mediaUC.ListVideos(c.Request().Context(), pagination)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, videos)
	}
}

func (h *mediaHandler) GetVideoByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID, err := uuid.Parse(c.Param("video_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		video, err := h.mediaUC.GetVideo(c.Request().Context(), videoID)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, video)
	}
}

func (h *mediaHandler) ListVariants() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID, err := uuid.Parse(c.Param("video_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		artifacts, err := h.mediaUC.ListVariants(c.Request().Context(), videoID)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, artifacts)
	}
}

func (h *mediaHandler) GetArtifact() echo.HandlerFunc {
	return func(c echo.Context) error {
		artifactID, err := uuid.Parse(c.Param("variant_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid variant id"})
		}
		artifact, err := h.mediaUC.GetArtifact(c.Request().Context(), artifactID)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, artifact)
	}
}

// DownloadArtifact redirects to object storage when the variant was
// published, otherwise streams the committed local file.
func (h *mediaHandler) DownloadArtifact() echo.HandlerFunc {
	return func(c echo.Context) error {
		artifactID, err := uuid.Parse(c.Param("variant_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid variant id"})
		}
		download, err := h.mediaUC.DownloadArtifact(c.Request().Context(), artifactID)
		if err != nil {
			return h.mapError(c, err)
		}
		if download.PresignedURL != "" {
			return c.Redirect(http.StatusTemporaryRedirect, download.PresignedURL)
		}
		return c.Attachment(download.LocalPath, download.FileName)
	}
}

func (h *mediaHandler) SubmitTrim() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.TrimInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		jobID, err := h.mediaUC.SubmitTrim(c.Request().Context(), input)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusAccepted, models.JobIDResponse{JobID: jobID})
	}
}

func (h *mediaHandler) SubmitOverlays() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.OverlaysInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		jobID, err := h.mediaUC.SubmitOverlays(c.Request().Context(), input)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusAccepted, models.JobIDResponse{JobID: jobID})
	}
}

func (h *mediaHandler) SubmitWatermark() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.WatermarkInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		jobID, err := h.mediaUC.SubmitWatermark(c.Request().Context(), input)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusAccepted, models.JobIDResponse{JobID: jobID})
	}
}

func (h *mediaHandler) SubmitTranscode() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.TranscodeInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		jobID, err := h.mediaUC.SubmitTranscode(c.Request().Context(), input)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusAccepted, models.JobIDResponse{JobID: jobID})
	}
}

// mapError translates submission and lookup failures into status codes.
// Validation failures are the caller's fault; everything else is logged and
// hidden behind a 500.
func (h *mediaHandler) mapError(c echo.Context, err error) error {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	case errors.As(err, &validationErrs),
		errors.Is(err, utils.ErrInvalidTimecode),
		errors.Is(err, utils.ErrInvalidRange),
		errors.Is(err, filters.ErrInvalidExpression),
		errors.Is(err, filters.ErrTooManyInputs),
		errors.Is(err, storage.ErrPathNotAllowed),
		errors.Is(err, usecase.ErrNoOverlays),
		errors.Is(err, usecase.ErrUnknownQuality),
		errors.Is(err, usecase.ErrArtifactMismatch):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	h.log.Errorf("media handler: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
