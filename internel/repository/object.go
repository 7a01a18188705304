package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/thesammykins/r2-image-worker/internel/domain"
	"github.com/thesammykins/r2-image-worker/internel/repository/dao"
	"github.com/thesammykins/r2-image-worker/pkg/log"
)

var ErrObjectNotFound = dao.ErrObjectNotFound

const listPageSize = 500

type ObjectRepository interface {
	// FindKeyByHash returns the key of the first object in the partition
	// whose stored content hash equals hash, or ErrObjectNotFound.
	FindKeyByHash(ctx context.Context, partition domain.Partition, hash string) (string, error)
	Save(ctx context.Context, obj domain.Object) error
	Get(ctx context.Context, partition domain.Partition, key string) (domain.Object, error)
}

type objectRepository struct {
	bucket dao.Bucket

	// hashCache maps "<partition>:<hash>" to an existing key so repeat
	// uploads skip the scan. It is filled only from scan results and
	// completed writes; an expired entry just falls back to a rescan.
	hashCache *cache.Cache
}

func NewObjectRepository(bucket dao.Bucket) ObjectRepository {
	return &objectRepository{
		bucket:    bucket,
		hashCache: cache.New(30*time.Minute, 10*time.Minute),
	}
}

// FindKeyByHash walks the partition listing page by page and checks each
// candidate's metadata. First match in listing order wins; listing order is
// backend-defined.
func (repo *objectRepository) FindKeyByHash(ctx context.Context, partition domain.Partition, hash string) (string, error) {
	cacheKey := hashCacheKey(partition, hash)
	if v, ok := repo.hashCache.Get(cacheKey); ok {
		return v.(string), nil
	}

	cursor := ""
	for {
		page, err := repo.bucket.List(ctx, dao.ListInput{
			Prefix: partition.Prefix(),
			Cursor: cursor,
			Limit:  listPageSize,
		})
		if err != nil {
			return "", fmt.Errorf("list %s: %w", partition, err)
		}
		for _, key := range page.Keys {
			head, err := repo.bucket.Head(ctx, key)
			if err != nil {
				if errors.Is(err, dao.ErrObjectNotFound) {
					// listed a moment ago, gone now; skip
					continue
				}
				return "", fmt.Errorf("head %s: %w", key, err)
			}
			if domain.MetadataFromMap(head.Metadata).OriginalHash == hash {
				repo.hashCache.Set(cacheKey, key, cache.DefaultExpiration)
				return key, nil
			}
		}
		if page.Cursor == "" {
			return "", ErrObjectNotFound
		}
		cursor = page.Cursor
	}
}

func (repo *objectRepository) Save(ctx context.Context, obj domain.Object) error {
	err := repo.bucket.Put(ctx, dao.PutInput{
		Key:         obj.Key,
		Body:        obj.Payload,
		ContentType: obj.ContentType,
		Metadata:    obj.Metadata.Map(),
	})
	if err != nil {
		return err
	}
	partition := domain.PartitionForContentType(obj.ContentType)
	repo.hashCache.Set(hashCacheKey(partition, obj.Metadata.OriginalHash), obj.Key, cache.DefaultExpiration)
	log.WithFields(log.Fields{
		"key":  obj.Key,
		"size": len(obj.Payload),
	}).Debug("object persisted")
	return nil
}

func (repo *objectRepository) Get(ctx context.Context, partition domain.Partition, key string) (domain.Object, error) {
	out, err := repo.bucket.Get(ctx, partition.Prefix()+key)
	if err != nil {
		return domain.Object{}, err
	}
	return domain.Object{
		Key:         partition.Prefix() + key,
		Payload:     out.Body,
		ContentType: out.ContentType,
		ETag:        out.ETag,
		Metadata:    domain.MetadataFromMap(out.Metadata),
	}, nil
}

func hashCacheKey(partition domain.Partition, hash string) string {
	return fmt.Sprintf("%s:%s", partition, hash)
}
