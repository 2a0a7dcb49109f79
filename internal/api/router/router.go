package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/tutorrito/arrival-notifier/internal/api/handlers/arrival"
	"github.com/tutorrito/arrival-notifier/internal/middlewares"
)

func New(handler *arrival.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/api/arrival")
	{
		api.POST("/", handler.Notify)
		api.GET("/", handler.GetAll)
		api.GET("/:id", handler.GetStatus)
	}

	return e
}
