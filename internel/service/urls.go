package service

import (
	"fmt"

	"github.com/thesammykins/r2-image-worker/config"
	"github.com/thesammykins/r2-image-worker/internel/domain"
)

// imageTransformPath is the edge resize template wrapped around a direct
// image URL when the uploader asks for the preview-optimized variant.
const imageTransformPath = "/cdn-cgi/image/fit=contain,width=1200,format=auto/"

// URLBuilder turns a stored key into its public address. Hosts come from
// configuration, never from the inbound request, so upload and delivery can
// live on different domains.
type URLBuilder struct {
	imageHost string
	fileHost  string
}

func NewURLBuilder(cfg *config.Config) *URLBuilder {
	return &URLBuilder{
		imageHost: cfg.ImageHost,
		fileHost:  cfg.FileHost,
	}
}

// Build returns the public URL for key (which already carries its partition
// prefix). The optimized flag only matters for images; other partitions
// always get the direct form.
func (b *URLBuilder) Build(scheme string, partition domain.Partition, key string, optimized bool) string {
	host := b.fileHost
	if partition == domain.PartitionImages {
		host = b.imageHost
	}
	direct := fmt.Sprintf("%s://%s/%s", scheme, host, key)
	if optimized && partition == domain.PartitionImages {
		return fmt.Sprintf("%s://%s%s%s", scheme, b.imageHost, imageTransformPath, direct)
	}
	return direct
}
