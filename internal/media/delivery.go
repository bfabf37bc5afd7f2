package media

import "github.com/labstack/echo/v4"

type Handler interface {
	UploadVideo() echo.HandlerFunc
	ListVideos() echo.HandlerFunc
	GetVideoByID() echo.HandlerFunc
	ListVariants() echo.HandlerFunc
	GetArtifact() echo.HandlerFunc
	DownloadArtifact() echo.HandlerFunc
	SubmitTrim() echo.HandlerFunc
	SubmitOverlays() echo.HandlerFunc
	SubmitWatermark() echo.HandlerFunc
	SubmitTranscode() echo.HandlerFunc
}
