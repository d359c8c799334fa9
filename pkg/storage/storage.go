package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"peiban/config"
)

// ErrNotFound 对象不存在
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey 非法的对象路径（绝对路径或包含..）
var ErrInvalidKey = errors.New("invalid object key")

// Provider 定义通用存储接口，key 为相对上传根目录的路径，如 logs/xxx.jpg
type Provider interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// New 根据配置创建存储实现
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.Storage.Type {
	case "", "local":
		return NewLocal(cfg.Upload.Root)
	case "minio":
		return NewMinio(ctx, cfg.Storage)
	default:
		return nil, fmt.Errorf("不支持的存储类型: %s", cfg.Storage.Type)
	}
}

// CleanKey 规范化对象路径，拒绝越界访问
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	cleaned := path.Clean(key)
	if cleaned == "." {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
