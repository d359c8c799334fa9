package handler

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"

	"peiban/pkg/logger"
	"peiban/pkg/response"
	"peiban/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileHandler 访问已上传的文件
type FileHandler struct {
	storage storage.Provider
}

func NewFileHandler(provider storage.Provider) *FileHandler {
	return &FileHandler{storage: provider}
}

// Serve GET /uploads/*path
func (h *FileHandler) Serve(c *gin.Context) {
	key, err := storage.CleanKey(strings.TrimPrefix(c.Param("path"), "/"))
	if err != nil {
		response.NotFound(c, "文件不存在")
		return
	}

	if local, ok := h.storage.(*storage.Local); ok {
		p, err := local.Path(key)
		if err != nil {
			response.NotFound(c, "文件不存在")
			return
		}
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			response.NotFound(c, "文件不存在")
			return
		}
		c.File(p)
		return
	}

	reader, err := h.storage.Open(c.Request.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		response.NotFound(c, "文件不存在")
		return
	}
	if err != nil {
		logger.Error("读取文件失败", zap.String("file", key), zap.Error(err))
		response.InternalError(c, "读取文件失败")
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, reader, nil)
}
