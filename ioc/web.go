package ioc

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/thesammykins/r2-image-worker/config"
	"github.com/thesammykins/r2-image-worker/internel/web"
	"github.com/thesammykins/r2-image-worker/internel/web/middleware"
)

func InitWebServer(mdls []gin.HandlerFunc, fileHdl *web.FileHandler) *gin.Engine {
	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(mdls...)
	fileHdl.RegisterRoutes(server)
	return server
}

func InitGinMiddlewares(cfg *config.Config) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		cors.New(cors.Config{
			AllowMethods: []string{"PUT", "GET"},
			AllowHeaders: []string{"Content-Type", "X-Auth-Key"},
			AllowOriginFunc: func(origin string) bool {
				if strings.HasPrefix(origin, "http://localhost") {
					return true
				}
				return cfg.UploadHost != "" && strings.Contains(origin, cfg.UploadHost)
			},
			MaxAge: 12 * time.Hour,
		}),
		middleware.NewAccessLogMiddlewareBuilder().Build(),
	}
}

func InitAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return middleware.NewAuthKeyMiddlewareBuilder(cfg.AuthKey).CheckKey()
}
