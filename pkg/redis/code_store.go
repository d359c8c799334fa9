package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peiban/pkg/secret"

	"github.com/redis/go-redis/v9"
)

// CodeKeyPrefix 验证码key前缀
const CodeKeyPrefix = "peiban:sms:code:"

// CodeStore 基于Redis的短信验证码存储
// 发送时写入验证码哈希并设置TTL，校验时比对哈希
// 校验成功不删除，TTL内重复登录结果一致
type CodeStore struct {
	client *redis.Client
	code   string        // 当前下发的验证码（开发环境为固定值）
	ttl    time.Duration // 有效期
}

// NewCodeStore 创建验证码存储
func NewCodeStore(client *redis.Client, code string, ttl time.Duration) *CodeStore {
	return &CodeStore{client: client, code: code, ttl: ttl}
}

// Issue 为手机号下发验证码
func (s *CodeStore) Issue(ctx context.Context, phone string) (string, error) {
	hash, err := secret.Hash(s.code)
	if err != nil {
		return "", fmt.Errorf("验证码哈希失败: %w", err)
	}
	if err := s.client.Set(ctx, CodeKeyPrefix+phone, hash, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("保存验证码失败: %w", err)
	}
	return s.code, nil
}

// Verify 校验手机号的验证码，未下发或已过期视为不匹配
func (s *CodeStore) Verify(ctx context.Context, phone, code string) (bool, error) {
	hash, err := s.client.Get(ctx, CodeKeyPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("读取验证码失败: %w", err)
	}
	return secret.Verify(code, hash), nil
}
