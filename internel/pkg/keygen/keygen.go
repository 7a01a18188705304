package keygen

import (
	"crypto/rand"
	"mime"
	"strings"

	"github.com/dlclark/regexp2"
)

// maxNameLen caps the sanitized basename so keys stay well under storage
// key-length limits even with the shortid and extension appended.
const maxNameLen = 100

var (
	whitespaceRe = regexp2.MustCompile(`\s+`, regexp2.None)
	unsafeRe     = regexp2.MustCompile(`[^A-Za-z0-9_.-]`, regexp2.None)
)

// Sanitize normalizes a client-supplied filename into a safe key fragment:
// only the final path segment survives, whitespace runs collapse to a single
// underscore, and anything outside [A-Za-z0-9_.-] is dropped. The result can
// be empty; NewKey handles that.
func Sanitize(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name, _ = whitespaceRe.Replace(name, "_", -1, -1)
	name, _ = unsafeRe.Replace(name, "", -1, -1)
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

// NewKey composes "<basename>_<shortid><.ext>" from an already sanitized
// name. The extension comes from the name itself when present, otherwise it
// is inferred from the content type; if neither yields one the key carries no
// extension. The inferred extension is cosmetic — the stored Content-Type is
// authoritative.
func NewKey(sanitized, contentType string) string {
	base := sanitized
	ext := ""
	if i := strings.LastIndex(sanitized, "."); i >= 0 {
		base = sanitized[:i]
		ext = sanitized[i:]
		if ext == "." {
			// dangling separator, treat as no extension
			ext = ""
		}
	}
	if ext == "" {
		ext = extensionFor(contentType)
	}
	return base + "_" + shortID() + ext
}

// preferredExt pins extensions for common types so the result does not
// depend on the host's mime tables.
var preferredExt = map[string]string{
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"image/avif":       ".avif",
	"image/svg+xml":    ".svg",
	"video/mp4":        ".mp4",
	"video/webm":       ".webm",
	"video/quicktime":  ".mov",
	"application/pdf":  ".pdf",
	"application/zip":  ".zip",
	"application/json": ".json",
	"text/plain":       ".txt",
}

func extensionFor(contentType string) string {
	if ext, ok := preferredExt[contentType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	idLength   = 10
)

// shortID returns a fixed-length random identifier over a 64-character
// url-safe alphabet. Collision probability is negligible at expected upload
// volumes; uniqueness is approximate, not guaranteed.
func shortID() string {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)&63]
	}
	return string(buf)
}
