package http

import (
	"github.com/clipforge/clipforge/internal/media"
	"github.com/labstack/echo/v4"
)

func MapMediaRoutes(v1 *echo.Group, h media.Handler) {
	v1.POST("/videos", h.UploadVideo())
	v1.GET("/videos", h.ListVideos())
	v1.GET("/videos/:video_id", h.GetVideoByID())
	v1.GET("/videos/:video_id/variants", h.ListVariants())

	v1.POST("/trim", h.SubmitTrim())
	v1.POST("/overlays", h.SubmitOverlays())
	v1.POST("/overlays/watermark", h.SubmitWatermark())
	v1.POST("/transcode", h.SubmitTranscode())

	v1.GET("/variants/:variant_id", h.GetArtifact())
	v1.GET("/variants/:variant_id/download", h.DownloadArtifact())
}
