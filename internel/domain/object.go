package domain

import (
	"strconv"
	"strings"
)

// Partition is the logical bucket an object lives in. It is both the
// storage-key prefix and the delivery-routing dimension.
type Partition string

const (
	PartitionImages Partition = "images"
	PartitionVideos Partition = "videos"
	PartitionFiles  Partition = "files"
)

// PartitionForContentType derives the partition from the declared media type.
// The prefix match is case-sensitive on purpose: the type is stored exactly as
// supplied and classification must agree with what was stored.
func PartitionForContentType(contentType string) Partition {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return PartitionImages
	case strings.HasPrefix(contentType, "video/"):
		return PartitionVideos
	default:
		return PartitionFiles
	}
}

// ParsePartition maps an inbound path segment to a known partition.
func ParsePartition(s string) (Partition, bool) {
	switch Partition(s) {
	case PartitionImages, PartitionVideos, PartitionFiles:
		return Partition(s), true
	default:
		return "", false
	}
}

// Prefix returns the key prefix for listing objects in the partition.
func (p Partition) Prefix() string {
	return string(p) + "/"
}

// Canonical custom-metadata keys. The S3 wire protocol lowercases metadata
// keys on the way back, so reads must go through MetadataFromMap.
const (
	MetaOriginalHash     = "originalHash"
	MetaOriginalFilename = "originalFilename"
	MetaUploadTimestamp  = "uploadTimestamp"
	MetaMimeType         = "mimeType"
)

// Metadata is the audit record carried alongside every stored object.
type Metadata struct {
	OriginalHash     string // hex content hash of the payload
	OriginalFilename string // client-supplied name, pre-sanitization
	UploadTimestamp  int64  // epoch milliseconds
	MimeType         string
}

// Map renders the metadata with canonical keys for the storage backend.
func (m Metadata) Map() map[string]string {
	return map[string]string{
		MetaOriginalHash:     m.OriginalHash,
		MetaOriginalFilename: m.OriginalFilename,
		MetaUploadTimestamp:  strconv.FormatInt(m.UploadTimestamp, 10),
		MetaMimeType:         m.MimeType,
	}
}

// MetadataFromMap parses backend metadata, tolerating lowercased keys.
func MetadataFromMap(raw map[string]string) Metadata {
	lower := make(map[string]string, len(raw))
	for k, v := range raw {
		lower[strings.ToLower(k)] = v
	}
	ts, _ := strconv.ParseInt(lower[strings.ToLower(MetaUploadTimestamp)], 10, 64)
	return Metadata{
		OriginalHash:     lower[strings.ToLower(MetaOriginalHash)],
		OriginalFilename: lower[strings.ToLower(MetaOriginalFilename)],
		UploadTimestamp:  ts,
		MimeType:         lower[strings.ToLower(MetaMimeType)],
	}
}

// Object is the unit of persistence. Payload and key are write-once.
type Object struct {
	Key         string // "<partition>/<basename>_<shortid>.<ext>"
	Payload     []byte
	ContentType string
	ETag        string // storage-level identity, set on reads
	Metadata    Metadata
}
