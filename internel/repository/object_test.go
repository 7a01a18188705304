package repository

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/thesammykins/r2-image-worker/internel/domain"
	"github.com/thesammykins/r2-image-worker/internel/repository/dao"
)

// pagingBucket serves one key per page to force the scan through the cursor
// path, and counts calls so caching behaviour is observable.
type pagingBucket struct {
	objects   map[string]dao.PutInput // key -> object, iterated in key order
	listCalls int
	headCalls int
}

func newPagingBucket() *pagingBucket {
	return &pagingBucket{objects: make(map[string]dao.PutInput)}
}

func (b *pagingBucket) sortedKeys(prefix string) []string {
	var keys []string
	for k := range b.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (b *pagingBucket) Put(ctx context.Context, in dao.PutInput) error {
	b.objects[in.Key] = in
	return nil
}

func (b *pagingBucket) Get(ctx context.Context, key string) (dao.GetOutput, error) {
	in, ok := b.objects[key]
	if !ok {
		return dao.GetOutput{}, dao.ErrObjectNotFound
	}
	return dao.GetOutput{Body: in.Body, ContentType: in.ContentType, ETag: "etag", Metadata: in.Metadata}, nil
}

func (b *pagingBucket) Head(ctx context.Context, key string) (dao.HeadOutput, error) {
	b.headCalls++
	in, ok := b.objects[key]
	if !ok {
		return dao.HeadOutput{}, dao.ErrObjectNotFound
	}
	return dao.HeadOutput{ContentType: in.ContentType, ETag: "etag", Metadata: in.Metadata}, nil
}

func (b *pagingBucket) List(ctx context.Context, in dao.ListInput) (dao.ListOutput, error) {
	b.listCalls++
	keys := b.sortedKeys(in.Prefix)
	for i, k := range keys {
		if k > in.Cursor {
			out := dao.ListOutput{Keys: []string{k}}
			if i < len(keys)-1 {
				out.Cursor = k
			}
			return out, nil
		}
	}
	return dao.ListOutput{}, nil
}

func putWithHash(b *pagingBucket, key, hash string) {
	meta := domain.Metadata{OriginalHash: hash, MimeType: "image/png"}
	b.objects[key] = dao.PutInput{Key: key, Body: []byte(key), ContentType: "image/png", Metadata: meta.Map()}
}

func TestFindKeyByHashFollowsPages(t *testing.T) {
	bucket := newPagingBucket()
	putWithHash(bucket, "images/a.png", "h1")
	putWithHash(bucket, "images/b.png", "h2")
	putWithHash(bucket, "images/c.png", "h3")

	repo := NewObjectRepository(bucket)
	key, err := repo.FindKeyByHash(context.Background(), domain.PartitionImages, "h3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "images/c.png" {
		t.Fatalf("wrong key: %q", key)
	}
	if bucket.listCalls < 3 {
		t.Fatalf("expected the scan to walk all pages, saw %d list calls", bucket.listCalls)
	}
}

func TestFindKeyByHashFirstMatchWins(t *testing.T) {
	bucket := newPagingBucket()
	// two objects with the same hash, as a concurrent-upload race can leave
	putWithHash(bucket, "images/first.png", "same")
	putWithHash(bucket, "images/second.png", "same")

	repo := NewObjectRepository(bucket)
	key, err := repo.FindKeyByHash(context.Background(), domain.PartitionImages, "same")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "images/first.png" {
		t.Fatalf("expected first key in listing order, got %q", key)
	}
}

func TestFindKeyByHashNotFound(t *testing.T) {
	bucket := newPagingBucket()
	putWithHash(bucket, "images/a.png", "h1")

	repo := NewObjectRepository(bucket)
	_, err := repo.FindKeyByHash(context.Background(), domain.PartitionImages, "missing")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestFindKeyByHashIgnoresOtherPartitions(t *testing.T) {
	bucket := newPagingBucket()
	putWithHash(bucket, "files/a.bin", "h1")

	repo := NewObjectRepository(bucket)
	_, err := repo.FindKeyByHash(context.Background(), domain.PartitionImages, "h1")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("hash in another partition must not match, got %v", err)
	}
}

func TestFindKeyByHashUsesCache(t *testing.T) {
	bucket := newPagingBucket()
	putWithHash(bucket, "images/a.png", "h1")

	repo := NewObjectRepository(bucket)
	if _, err := repo.FindKeyByHash(context.Background(), domain.PartitionImages, "h1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	listsAfterScan := bucket.listCalls

	key, err := repo.FindKeyByHash(context.Background(), domain.PartitionImages, "h1")
	if err != nil || key != "images/a.png" {
		t.Fatalf("cached lookup failed: %q, %v", key, err)
	}
	if bucket.listCalls != listsAfterScan {
		t.Fatalf("cached lookup should not list again")
	}
}

func TestSavePrimesCache(t *testing.T) {
	bucket := newPagingBucket()
	repo := NewObjectRepository(bucket)

	obj := domain.Object{
		Key:         "images/new.png",
		Payload:     []byte("png"),
		ContentType: "image/png",
		Metadata:    domain.Metadata{OriginalHash: "h9", MimeType: "image/png"},
	}
	if err := repo.Save(context.Background(), obj); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	key, err := repo.FindKeyByHash(context.Background(), domain.PartitionImages, "h9")
	if err != nil || key != "images/new.png" {
		t.Fatalf("expected cache hit from save: %q, %v", key, err)
	}
	if bucket.listCalls != 0 {
		t.Fatalf("lookup after save should not scan")
	}
}
