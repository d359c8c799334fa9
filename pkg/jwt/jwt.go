package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"peiban/config"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 令牌缺失、格式错误、签名错误或已过期
var ErrInvalidToken = errors.New("invalid token")

// JWTService 提供 JWT 生成与校验能力
// 使用对称密钥 HS256
// Subject 存放十进制用户ID

type JWTService struct {
	secretKey   []byte        // 对称密钥
	issuer      string        // 签发者
	expireAfter time.Duration // 过期时间
	now         func() time.Time
}

// NewJWTService 创建 JWT 服务
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secretKey:   []byte(cfg.Secret),
		issuer:      cfg.Issuer,
		expireAfter: cfg.ExpireTime,
		now:         time.Now,
	}
}

// GenerateToken 生成访问令牌
func (s *JWTService) GenerateToken(userID uint) (string, error) {
	if userID == 0 {
		return "", errors.New("userID is required")
	}

	now := s.now()
	claims := &jwtv5.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwtv5.NewNumericDate(now),
		NotBefore: jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(s.expireAfter)),
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

// ValidateToken 校验令牌并返回其中的用户ID
func (s *JWTService) ValidateToken(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, ErrInvalidToken
	}

	claims := &jwtv5.RegisteredClaims{}
	parsedToken, err := jwtv5.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwtv5.Token) (interface{}, error) {
			// 验证签名方法
			if token.Method != jwtv5.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secretKey, nil
		},
		jwtv5.WithIssuer(s.issuer),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsedToken.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return uint(userID), nil
}
