package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sparkmeet/spark-backend/internal/app"
	"github.com/sparkmeet/spark-backend/internal/handlers"
)

// NewRouter wires the engine handlers into a gin router.
func NewRouter(appCtx *app.AppContext) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	engineHandler := handlers.NewEngineHandler(appCtx)

	v1 := router.Group("/v1")
	{
		v1.PUT("/swipes", engineHandler.PutSwipe)
		v1.POST("/swipes/undo", engineHandler.UndoSwipe)

		v1.POST("/queue/:viewerID/rebuild", engineHandler.RebuildQueue)
		v1.GET("/queue/:viewerID", engineHandler.ReadQueue)

		v1.GET("/matches/:userID", engineHandler.ReadMatches)
		v1.GET("/matches/:userID/count", engineHandler.CountMatches)

		v1.GET("/analytics/:userID", engineHandler.ReadAnalytics)
	}

	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := appCtx.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err == nil && appCtx.RedisCache != nil {
			err = appCtx.RedisCache.Ping(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// Start boots the HTTP server on the configured address.
func Start(appCtx *app.AppContext) error {
	addr := appCtx.Config.HTTP.Host + ":" + appCtx.Config.HTTP.Port
	return NewRouter(appCtx).Run(addr)
}
