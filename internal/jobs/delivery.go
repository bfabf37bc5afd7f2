package jobs

import "github.com/labstack/echo/v4"

type Handler interface {
	GetJobByID() echo.HandlerFunc
}
