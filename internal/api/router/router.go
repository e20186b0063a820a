package router

import (
	"github.com/wb-go/wbf/ginext"

	assethandler "github.com/cgartco6/asset-engine/internal/api/handlers/asset"
	taskhandler "github.com/cgartco6/asset-engine/internal/api/handlers/task"
	"github.com/cgartco6/asset-engine/internal/middleware"
)

func Setup(th *taskhandler.Handler, ah *assethandler.Handler) *ginext.Engine {
	r := ginext.New()

	r.Use(middleware.CORSMiddleware())
	r.Use(ginext.Logger())
	r.Use(ginext.Recovery())

	api := r.Group("/api")

	api.POST("/tasks", th.Submit)                 // submitting a task
	api.GET("/assets/:id", ah.Get)                // asset metadata by id
	api.GET("/assets/:id/content", ah.GetContent) // raw asset bytes by id
	api.GET("/healthz", th.Health)                // liveness counters

	return r
}
