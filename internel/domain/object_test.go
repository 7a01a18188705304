package domain

import "testing"

func TestPartitionForContentType(t *testing.T) {
	cases := []struct {
		contentType string
		want        Partition
	}{
		{"image/jpeg", PartitionImages},
		{"image/svg+xml", PartitionImages},
		{"video/mp4", PartitionVideos},
		{"application/pdf", PartitionFiles},
		{"text/plain", PartitionFiles},
		// classification is case-sensitive on the prefix as supplied
		{"IMAGE/jpeg", PartitionFiles},
		{"", PartitionFiles},
	}
	for _, tc := range cases {
		if got := PartitionForContentType(tc.contentType); got != tc.want {
			t.Fatalf("PartitionForContentType(%q) = %q, want %q", tc.contentType, got, tc.want)
		}
	}
}

func TestParsePartition(t *testing.T) {
	for _, valid := range []string{"images", "videos", "files"} {
		if _, ok := ParsePartition(valid); !ok {
			t.Fatalf("%q should parse", valid)
		}
	}
	for _, invalid := range []string{"documents", "Images", "", "images/"} {
		if _, ok := ParsePartition(invalid); ok {
			t.Fatalf("%q should not parse", invalid)
		}
	}
}

func TestMetadataMapRoundTripToleratesLowercasing(t *testing.T) {
	m := Metadata{
		OriginalHash:     "abc123",
		OriginalFilename: "Cat Photo.jpg",
		UploadTimestamp:  1724900000000,
		MimeType:         "image/jpeg",
	}
	// simulate the S3 wire protocol folding metadata keys to lowercase
	lowered := make(map[string]string)
	for k, v := range m.Map() {
		lowered[lowerASCII(k)] = v
	}
	got := MetadataFromMap(lowered)
	if got != m {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, m)
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}
