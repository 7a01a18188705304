package ioc

import (
	"context"
	"os"

	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/thesammykins/r2-image-worker/config"
	"github.com/thesammykins/r2-image-worker/internel/repository/dao"
)

// InitBucket selects the storage backend: R2 over the S3 API, or the local
// afero+gorm bucket for development.
func InitBucket(cfg *config.Config, db *gorm.DB) dao.Bucket {
	switch cfg.Storage.Backend {
	case "s3":
		bucket, err := dao.NewS3Bucket(context.Background(), dao.S3Config{
			Endpoint:        cfg.Storage.S3.Endpoint,
			Region:          cfg.Storage.S3.Region,
			Bucket:          cfg.Storage.S3.Bucket,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
		})
		if err != nil {
			panic(err)
		}
		return bucket
	default:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			panic(err)
		}
		fs := afero.NewBasePathFs(afero.NewOsFs(), cfg.Storage.DataDir)
		bucket, err := dao.NewFsBucket(fs, db)
		if err != nil {
			panic(err)
		}
		return bucket
	}
}
