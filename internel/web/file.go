package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thesammykins/r2-image-worker/internel/service"
)

const (
	// previewOptimized is the only recognized url_preference value; anything
	// else selects the direct URL.
	previewOptimized = "Preview-Optimized URL"

	// cacheControl keeps delivered objects at the edge for 30 days. Objects
	// are immutable so a long lifetime is safe.
	cacheControl = "public, max-age=2592000"

	missingFileBody = `Missing "file" in form data`
)

type FileHandler struct {
	fileSvc service.FileService
	auth    gin.HandlerFunc
}

func NewFileHandler(fileSvc service.FileService, auth gin.HandlerFunc) *FileHandler {
	return &FileHandler{
		fileSvc: fileSvc,
		auth:    auth,
	}
}

func (h *FileHandler) RegisterRoutes(server *gin.Engine) {
	server.PUT("/upload", h.auth, h.Upload)
	server.GET("/:partition/:key", h.Download)
	server.GET("/", h.Index)
}

func (h *FileHandler) Index(ctx *gin.Context) {
	ctx.String(http.StatusOK, "r2-image-worker")
}

func (h *FileHandler) Upload(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.String(http.StatusBadRequest, missingFileBody)
		return
	}
	defer file.Close()

	filename := ctx.PostForm("filename")
	if filename == "" {
		filename = header.Filename
	}
	if filename == "" {
		filename = "untitled"
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.fileSvc.Upload(ctx, service.UploadRequest{
		File:        file,
		Filename:    filename,
		ContentType: contentType,
		Scheme:      requestScheme(ctx),
		Optimized:   ctx.PostForm("url_preference") == previewOptimized,
	})
	if err != nil {
		var writeErr *service.StorageWriteError
		switch {
		case errors.Is(err, service.ErrMissingFile):
			ctx.String(http.StatusBadRequest, missingFileBody)
		case errors.As(err, &writeErr):
			ctx.String(http.StatusInternalServerError, "Failed to upload to R2: %s", writeErr.Unwrap().Error())
		default:
			ctx.String(http.StatusInternalServerError, "Unknown error")
		}
		return
	}
	ctx.String(http.StatusOK, url)
}

func (h *FileHandler) Download(ctx *gin.Context) {
	obj, err := h.fileSvc.Get(ctx, ctx.Param("partition"), ctx.Param("key"))
	if err != nil {
		// missing objects and unknown partitions answer identically
		ctx.String(http.StatusNotFound, "Not Found")
		return
	}
	ctx.Header("Cache-Control", cacheControl)
	if obj.ETag != "" {
		ctx.Header("ETag", `"`+obj.ETag+`"`)
	}
	ctx.Data(http.StatusOK, obj.ContentType, obj.Payload)
}

// requestScheme resolves the externally visible scheme: the edge proxy's
// X-Forwarded-Proto when present, else the connection itself.
func requestScheme(ctx *gin.Context) string {
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if ctx.Request.TLS != nil {
		return "https"
	}
	return "http"
}
