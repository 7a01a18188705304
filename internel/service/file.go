package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/thesammykins/r2-image-worker/internel/domain"
	"github.com/thesammykins/r2-image-worker/internel/pkg/keygen"
	"github.com/thesammykins/r2-image-worker/internel/repository"
	"github.com/thesammykins/r2-image-worker/pkg/log"
)

var (
	ErrMissingFile = errors.New("no file payload in request")
	ErrHashFailure = errors.New("failed to hash payload")
	ErrNotFound    = errors.New("object not found")
)

// StorageWriteError wraps a failed persistence call so the handler can
// surface the backend's message to the (authenticated) uploader.
type StorageWriteError struct {
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write failed: %v", e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// UploadRequest is one intake: the payload stream, the declared name and
// type, and how the resulting URL should be built.
type UploadRequest struct {
	File        io.Reader
	Filename    string
	ContentType string
	Scheme      string
	Optimized   bool // preview-optimized delivery preference
}

type FileService interface {
	// Upload runs the intake pipeline and returns the public URL, either of
	// an existing object with identical content or of a freshly stored one.
	Upload(ctx context.Context, req UploadRequest) (string, error)
	// Get resolves a (partition, key) pair to the stored object. Unknown
	// partitions and missing keys are both ErrNotFound.
	Get(ctx context.Context, partition string, key string) (domain.Object, error)
}

type fileService struct {
	repo repository.ObjectRepository
	urls *URLBuilder
}

func NewFileService(repo repository.ObjectRepository, urls *URLBuilder) FileService {
	return &fileService{
		repo: repo,
		urls: urls,
	}
}

func (svc *fileService) Upload(ctx context.Context, req UploadRequest) (string, error) {
	if req.File == nil {
		return "", ErrMissingFile
	}

	// hash while buffering, one pass over the stream
	hasher := sha256.New()
	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(hasher, &buf), req.File); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashFailure, err)
	}
	hash := hex.EncodeToString(hasher.Sum(nil))
	partition := domain.PartitionForContentType(req.ContentType)

	existing, err := svc.repo.FindKeyByHash(ctx, partition, hash)
	if err == nil {
		log.WithFields(log.Fields{
			"key":  existing,
			"hash": hash,
		}).Info("duplicate upload, reusing stored object")
		return svc.urls.Build(req.Scheme, partition, existing, req.Optimized), nil
	}
	if !errors.Is(err, repository.ErrObjectNotFound) {
		return "", &StorageWriteError{Err: err}
	}

	key := partition.Prefix() + keygen.NewKey(keygen.Sanitize(req.Filename), req.ContentType)
	obj := domain.Object{
		Key:         key,
		Payload:     buf.Bytes(),
		ContentType: req.ContentType,
		Metadata: domain.Metadata{
			OriginalHash:     hash,
			OriginalFilename: req.Filename,
			UploadTimestamp:  time.Now().UnixMilli(),
			MimeType:         req.ContentType,
		},
	}
	if err := svc.repo.Save(ctx, obj); err != nil {
		return "", &StorageWriteError{Err: err}
	}
	log.WithFields(log.Fields{
		"key":       key,
		"partition": partition,
		"size":      len(obj.Payload),
	}).Info("object stored")
	return svc.urls.Build(req.Scheme, partition, key, req.Optimized), nil
}

func (svc *fileService) Get(ctx context.Context, partitionStr string, key string) (domain.Object, error) {
	// unknown partitions answer exactly like missing objects
	partition, ok := domain.ParsePartition(partitionStr)
	if !ok {
		return domain.Object{}, ErrNotFound
	}
	obj, err := svc.repo.Get(ctx, partition, key)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return domain.Object{}, ErrNotFound
		}
		return domain.Object{}, err
	}
	return obj, nil
}
