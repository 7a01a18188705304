package dao

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("object not found")

// PutInput carries one object write. Metadata keys follow the canonical
// casing from the domain package; backends may fold case on the way back.
type PutInput struct {
	Key         string
	Body        []byte
	ContentType string
	Metadata    map[string]string
}

type GetOutput struct {
	Body        []byte
	ContentType string
	ETag        string
	Metadata    map[string]string
}

type HeadOutput struct {
	ContentType string
	ETag        string
	Metadata    map[string]string
}

type ListInput struct {
	Prefix string
	Cursor string // empty starts from the beginning of the prefix
	Limit  int    // page size, backend default when <= 0
}

type ListOutput struct {
	Keys   []string
	Cursor string // empty when the listing is exhausted
}

// Bucket is the narrow surface this service consumes from an R2/S3 bucket:
// blind writes, reads by key, metadata-only reads, and paginated listing.
// Listing order is backend-defined and not otherwise meaningful.
type Bucket interface {
	Put(ctx context.Context, in PutInput) error
	Get(ctx context.Context, key string) (GetOutput, error)
	Head(ctx context.Context, key string) (HeadOutput, error)
	List(ctx context.Context, in ListInput) (ListOutput, error)
}
