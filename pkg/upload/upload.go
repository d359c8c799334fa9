package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"strings"

	"peiban/config"
	"peiban/pkg/logger"
	"peiban/pkg/metrics"
	"peiban/pkg/storage"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFile 扩展名不在白名单内
var ErrUnsupportedFile = errors.New("unsupported file type")

// 上传子目录
const (
	SubfolderAvatars = "avatars"
	SubfolderLogs    = "logs"
)

// Handler 图片上传处理：校验扩展名、生成唯一文件名、压缩后写入存储
type Handler struct {
	storage      storage.Provider
	allowed      map[string]struct{}
	maxDimension int
	quality      int
}

// NewHandler 创建上传处理器
func NewHandler(cfg config.UploadConfig, provider storage.Provider) *Handler {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Handler{
		storage:      provider,
		allowed:      allowed,
		maxDimension: cfg.MaxDimension,
		quality:      cfg.Quality,
	}
}

// Extension 返回允许的小写扩展名，不允许时 ok 为 false
func (h *Handler) Extension(filename string) (string, bool) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return "", false
	}
	ext := strings.ToLower(filename[idx+1:])
	_, ok := h.allowed[ext]
	return ext, ok
}

// Save 保存表单上传的图片，返回相对上传根目录的路径
func (h *Handler) Save(ctx context.Context, fh *multipart.FileHeader, subfolder string) (string, error) {
	if _, ok := h.Extension(fh.Filename); !ok {
		return "", ErrUnsupportedFile
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer f.Close()

	return h.SaveReader(ctx, fh.Filename, f, subfolder)
}

// SaveReader 保存图片内容，压缩失败时保留原始内容
func (h *Handler) SaveReader(ctx context.Context, filename string, r io.Reader, subfolder string) (string, error) {
	ext, ok := h.Extension(filename)
	if !ok {
		return "", ErrUnsupportedFile
	}

	original, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("读取上传文件失败: %w", err)
	}

	key := path.Join(subfolder, uuid.NewString()+"."+ext)

	data := original
	contentType := mime.TypeByExtension("." + ext)
	if encoded, err := Reencode(original, h.maxDimension, h.quality); err != nil {
		metrics.ImageReencodeFailures.Inc()
		logger.Warn("图片处理错误，保留原图",
			zap.String("file", key),
			zap.Error(err),
		)
	} else {
		data = encoded
		contentType = "image/jpeg"
	}

	if err := h.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("保存文件失败: %w", err)
	}
	logger.Debug("图片已保存", zap.String("file", key), zap.Int("bytes", len(data)))
	return key, nil
}

// Delete 删除已保存的文件，文件不存在时忽略
func (h *Handler) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return h.storage.Delete(ctx, key)
}

// Reencode 等比缩放到最长边不超过 maxDimension，带透明通道或调色板的图片铺白底转RGB，
// 以 quality 质量重新编码为JPEG
func Reencode(data []byte, maxDimension, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	if resized.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	if !resized.Opaque() {
		bg := imaging.New(resized.Bounds().Dx(), resized.Bounds().Dy(), color.White)
		resized = imaging.Overlay(bg, resized, image.Pt(0, 0), 1.0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
