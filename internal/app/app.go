package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/regwizard/internal/config"
	httpx "github.com/you/regwizard/internal/http"
	"github.com/you/regwizard/internal/http/handlers"
	"github.com/you/regwizard/internal/http/middleware"
	"github.com/you/regwizard/internal/infrastructure/database"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	container, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}
	if err := database.AutoMigrate(container.DB); err != nil {
		return err
	}

	regH := handlers.NewRegistrationHandlers(container.RegistrationSvc, container.TokenSvc, cfg.CookieName, cfg.Suggestions)
	dashH := handlers.NewDashboardHandlers(container.AccountRepo)
	authMW := middleware.NewAuthMW(container.TokenSvc)

	r := httpx.BuildRouter(regH, dashH, authMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
