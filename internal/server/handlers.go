package server

import (
	"net/http"

	jobsHttp "github.com/clipforge/clipforge/internal/jobs/delivery/http"
	jobsRepository "github.com/clipforge/clipforge/internal/jobs/repository"
	jobsUsecase "github.com/clipforge/clipforge/internal/jobs/usecase"
	"github.com/clipforge/clipforge/internal/media"
	mediaHttp "github.com/clipforge/clipforge/internal/media/delivery/http"
	mediaRepository "github.com/clipforge/clipforge/internal/media/repository"
	mediaUsecase "github.com/clipforge/clipforge/internal/media/usecase"
	"github.com/clipforge/clipforge/internal/middleware"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	mRepo := mediaRepository.NewMediaRepo(s.db)
	jRepo := jobsRepository.NewJobRepo(s.db)
	jRedisRepo := jobsRepository.NewJobRedisRepo(s.redisClient)

	var mAWSRepo media.AWSRepository
	if s.cfg.S3.Enabled && s.s3Client != nil {
		mAWSRepo = mediaRepository.NewAwsRepository(s.s3Client, s.preSignClient)
	}

	mediaUC := mediaUsecase.NewMediaUseCase(s.cfg, mRepo, mAWSRepo, s.store, s.jobManager, s.logger)
	jobsUC := jobsUsecase.NewJobsUseCase(s.cfg, jRepo, jRedisRepo, s.logger)

	mediaHandlers := mediaHttp.NewMediaHandler(mediaUC, s.logger)
	jobsHandlers := jobsHttp.NewJobsHandler(jobsUC, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	jobsGroup := v1.Group("/jobs")

	mediaHttp.MapMediaRoutes(v1, mediaHandlers)
	jobsHttp.MapJobsRoutes(jobsGroup, jobsHandlers)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
