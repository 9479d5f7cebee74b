package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/regwizard/internal/http/handlers"
	"github.com/you/regwizard/internal/http/middleware"
)

func BuildRouter(rh *handlers.RegistrationHandlers, dh *handlers.DashboardHandlers, authmw *middleware.AuthMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	reg := r.Group("/register")
	reg.GET("/:step", rh.Show)
	reg.POST("/:step", rh.Submit)

	r.GET("/dashboard", authmw.WithToken(), dh.Me)

	return r
}
