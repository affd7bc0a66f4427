package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/campusbook/scheduler/internal/config"
)

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(cfg *config.Config, importCtrl *ImportController, slotCtrl *SlotController, meetingCtrl *MeetingController) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		importCtrl.RegisterRoutes(api)
		slotCtrl.RegisterRoutes(api)
		meetingCtrl.RegisterRoutes(api)
	}

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.String(200, "OK")
	})

	return router
}
