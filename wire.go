//go:build wireinject

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/thesammykins/r2-image-worker/config"
	"github.com/thesammykins/r2-image-worker/internel/repository"
	"github.com/thesammykins/r2-image-worker/internel/service"
	"github.com/thesammykins/r2-image-worker/internel/web"
	"github.com/thesammykins/r2-image-worker/ioc"
)

func InitWebServer(cfg *config.Config) *gin.Engine {
	wire.Build(
		// 第三方依赖
		ioc.InitDB,
		ioc.InitBucket,

		// repo
		repository.NewObjectRepository,

		// service
		service.NewURLBuilder,
		service.NewFileService,

		// controller
		ioc.InitAuthMiddleware,
		web.NewFileHandler,

		// app
		ioc.InitGinMiddlewares,
		ioc.InitWebServer,
	)
	return nil
}
