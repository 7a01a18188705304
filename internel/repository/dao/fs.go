package dao

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"path"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

var ErrDuplicateKey = errors.New("object key already exists")

const defaultPageSize = 500

// ObjectRow is the metadata row kept per stored object. Payload bytes live on
// the afero filesystem; rows carry everything a Head or List needs so neither
// touches the payload.
type ObjectRow struct {
	ID          uint              `gorm:"column:id;primaryKey;autoIncrement"`
	Key         string            `gorm:"column:object_key;size:512;not null;uniqueIndex"`
	ContentType string            `gorm:"column:content_type;size:255"`
	ETag        string            `gorm:"column:etag;size:64"`
	Metadata    map[string]string `gorm:"column:metadata;serializer:json"`
	Ctime       int64             `gorm:"column:ctime"`
}

func (ObjectRow) TableName() string {
	return "objects"
}

// FsBucket implements Bucket over an afero filesystem for payloads and a
// gorm-managed table for metadata. It backs local deployments and tests.
type FsBucket struct {
	fs afero.Fs
	db *gorm.DB
}

func NewFsBucket(fs afero.Fs, db *gorm.DB) (*FsBucket, error) {
	if err := db.AutoMigrate(&ObjectRow{}); err != nil {
		return nil, err
	}
	return &FsBucket{fs: fs, db: db}, nil
}

func (b *FsBucket) Put(ctx context.Context, in PutInput) error {
	if err := b.fs.MkdirAll(path.Dir(in.Key), 0o755); err != nil {
		return err
	}
	if err := afero.WriteFile(b.fs, in.Key, in.Body, 0o644); err != nil {
		return err
	}
	sum := md5.Sum(in.Body)
	row := ObjectRow{
		Key:         in.Key,
		ContentType: in.ContentType,
		ETag:        hex.EncodeToString(sum[:]),
		Metadata:    in.Metadata,
		Ctime:       time.Now().UnixMilli(),
	}
	err := b.db.WithContext(ctx).Create(&row).Error
	if me, ok := err.(*mysql.MySQLError); ok {
		const duplicateErr uint16 = 1062
		if me.Number == duplicateErr {
			return ErrDuplicateKey
		}
	}
	return err
}

func (b *FsBucket) Get(ctx context.Context, key string) (GetOutput, error) {
	row, err := b.findRow(ctx, key)
	if err != nil {
		return GetOutput{}, err
	}
	body, err := afero.ReadFile(b.fs, key)
	if err != nil {
		return GetOutput{}, err
	}
	return GetOutput{
		Body:        body,
		ContentType: row.ContentType,
		ETag:        row.ETag,
		Metadata:    row.Metadata,
	}, nil
}

func (b *FsBucket) Head(ctx context.Context, key string) (HeadOutput, error) {
	row, err := b.findRow(ctx, key)
	if err != nil {
		return HeadOutput{}, err
	}
	return HeadOutput{
		ContentType: row.ContentType,
		ETag:        row.ETag,
		Metadata:    row.Metadata,
	}, nil
}

// List pages keys under the prefix in key order, keyset-style: the cursor is
// the last key of the previous page.
func (b *FsBucket) List(ctx context.Context, in ListInput) (ListOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	var rows []ObjectRow
	err := b.db.WithContext(ctx).
		Select("object_key").
		Where("object_key LIKE ?", in.Prefix+"%").
		Where("object_key > ?", in.Cursor).
		Order("object_key").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return ListOutput{}, err
	}
	out := ListOutput{Keys: make([]string, 0, len(rows))}
	for _, row := range rows {
		out.Keys = append(out.Keys, row.Key)
	}
	if len(rows) == limit {
		out.Cursor = rows[len(rows)-1].Key
	}
	return out, nil
}

func (b *FsBucket) findRow(ctx context.Context, key string) (ObjectRow, error) {
	var row ObjectRow
	err := b.db.WithContext(ctx).Where("object_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ObjectRow{}, ErrObjectNotFound
	}
	return row, err
}
