package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// 本地存储默认创建的子目录
var defaultSubfolders = []string{"avatars", "logs"}

// Local 本地存储实现
type Local struct {
	root string
}

// NewLocal 创建本地存储并确保上传目录存在
func NewLocal(root string) (*Local, error) {
	for _, sub := range defaultSubfolders {
		if err := os.MkdirAll(filepath.Join(root, sub), 0755); err != nil {
			return nil, fmt.Errorf("创建上传目录失败: %w", err)
		}
	}
	return &Local{root: root}, nil
}

// Path 对象在本地磁盘上的路径
func (p *Local) Path(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.root, filepath.FromSlash(cleaned)), nil
}

func (p *Local) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	dst, err := p.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

// Delete 删除文件，文件不存在时忽略
func (p *Local) Delete(ctx context.Context, key string) error {
	dst, err := p.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (p *Local) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	dst, err := p.Path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(dst)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}
