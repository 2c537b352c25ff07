// api/router.go

package api

import (
	"virtualroom/internal/handlers"
	"virtualroom/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRouter(roomHandler *handlers.RoomHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestLogger())

	api := router.Group("/api")
	{
		// 虚拟房间指令入口
		api.GET("/RoomDemo", roomHandler.Handle)
		api.POST("/RoomDemo", roomHandler.Handle)
		api.GET("/rooms", roomHandler.Handle)
		api.POST("/rooms", roomHandler.Handle)
	}

	router.GET("/healthz", roomHandler.Health)

	return router
}
