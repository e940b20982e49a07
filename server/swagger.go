package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SwaggerInfo holds swagger metadata
type SwaggerInfo struct {
	Title       string
	Description string
	Version     string
	Host        string
	BasePath    string
}

// SwaggerHostUpdater is a function type to update SwaggerInfo.Host at runtime.
// Callers should pass a function that updates docs.SwaggerInfo.Host.
type SwaggerHostUpdater func(host string)

// RegisterSwagger registers swagger UI endpoint with dynamic host from request.
// The generated docs package must be imported for its side effects:
// _ "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/docs"
func (a *App) RegisterSwagger(info SwaggerInfo, hostUpdater SwaggerHostUpdater) {
	a.engine.GET("/swagger/*any", func(c *gin.Context) {
		// Supports X-Forwarded-Host for reverse proxy setups
		host := c.GetHeader("X-Forwarded-Host")
		if host == "" {
			host = c.Request.Host
		}

		if hostUpdater != nil {
			hostUpdater(host)
		}

		handler := ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.DefaultModelsExpandDepth(-1),
		)
		handler(c)
	})

	a.logger.Info().
		Str("path", "/swagger/index.html").
		Msg("Swagger UI registered with dynamic host")
}
