package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"peiban/config"
	"peiban/internal/model"
	"peiban/internal/repository"
	"peiban/pkg/db"
	"peiban/pkg/jwt"
	"peiban/pkg/logger"
	"peiban/pkg/metrics"
	"peiban/pkg/wechat"

	"go.uber.org/zap"
)

// CodeVerifier 短信验证码的下发与校验
type CodeVerifier interface {
	Issue(ctx context.Context, phone string) (string, error)
	Verify(ctx context.Context, phone, code string) (bool, error)
}

// StaticCodeVerifier 开发环境固定验证码
type StaticCodeVerifier struct {
	Code string
}

func (v StaticCodeVerifier) Issue(ctx context.Context, phone string) (string, error) {
	return v.Code, nil
}

func (v StaticCodeVerifier) Verify(ctx context.Context, phone, code string) (bool, error) {
	return v.Code != "" && code == v.Code, nil
}

// AuthService 手机号/微信登录
type AuthService struct {
	users         *repository.UserRepository
	jwtService    *jwt.JWTService
	codes         CodeVerifier
	wechat        *wechat.Client
	allowDevLogin bool
}

func NewAuthService(cfg *config.Config, users *repository.UserRepository, jwtService *jwt.JWTService, codes CodeVerifier, wechatClient *wechat.Client) *AuthService {
	return &AuthService{
		users:         users,
		jwtService:    jwtService,
		codes:         codes,
		wechat:        wechatClient,
		allowDevLogin: cfg.WeChat.AllowDevLogin,
	}
}

// ValidPhone 11位数字
func ValidPhone(phone string) bool {
	if len(phone) != 11 {
		return false
	}
	for i := 0; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}
	return true
}

// SendCode 下发验证码，开发环境直接返回验证码
func (s *AuthService) SendCode(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if !ValidPhone(phone) {
		return "", ErrInvalidPhone
	}
	code, err := s.codes.Issue(ctx, phone)
	if err != nil {
		return "", fmt.Errorf("下发验证码失败: %w", err)
	}
	return code, nil
}

// VerifyPhone 手机号+验证码登录，用户不存在时自动创建
func (s *AuthService) VerifyPhone(ctx context.Context, phone, code string) (*model.User, string, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return nil, "", ErrPhoneRequired
	}
	if !ValidPhone(phone) {
		return nil, "", ErrInvalidPhone
	}
	ok, err := s.codes.Verify(ctx, phone, code)
	if err != nil {
		return nil, "", fmt.Errorf("校验验证码失败: %w", err)
	}
	if !ok {
		return nil, "", ErrInvalidCode
	}

	user, err := s.findOrCreate(ctx,
		func(ctx context.Context) (*model.User, error) { return s.users.GetByPhone(ctx, phone) },
		func() *model.User {
			p := phone
			return &model.User{Phone: &p, Nickname: "用户" + phone[len(phone)-4:]}
		},
	)
	if err != nil {
		return nil, "", err
	}
	return s.login(user, "phone")
}

// WeChatLogin 小程序登录，用户不存在时自动创建
func (s *AuthService) WeChatLogin(ctx context.Context, code string) (*model.User, string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, "", ErrCodeRequired
	}

	var openID string
	switch {
	case s.wechat != nil && s.wechat.Configured():
		id, err := s.wechat.Code2Session(ctx, code)
		if err != nil {
			logger.Warn("微信code2session失败", zap.Error(err))
			return nil, "", err
		}
		openID = id
	case s.allowDevLogin:
		openID = "dev_openid_" + code
	default:
		return nil, "", ErrWeChatNotConfigured
	}

	user, err := s.findOrCreate(ctx,
		func(ctx context.Context) (*model.User, error) { return s.users.GetByOpenID(ctx, openID) },
		func() *model.User {
			id := openID
			return &model.User{WechatOpenID: &id, Nickname: "微信用户"}
		},
	)
	if err != nil {
		return nil, "", err
	}
	return s.login(user, "wechat")
}

// Me 当前用户
func (s *AuthService) Me(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// findOrCreate 查找用户，不存在则创建；并发创建撞上唯一索引时回读已存在的用户
func (s *AuthService) findOrCreate(ctx context.Context, find func(context.Context) (*model.User, error), newUser func() *model.User) (*model.User, error) {
	user, err := find(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	user = newUser()
	if err := s.users.Create(ctx, user); err != nil {
		if db.IsDuplicateKey(err) {
			return find(ctx)
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	logger.Info("新用户注册", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *AuthService) login(user *model.User, channel string) (*model.User, string, error) {
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	metrics.Logins.WithLabelValues(channel).Inc()
	logger.Info("用户登录", zap.Uint("user_id", user.ID), zap.String("channel", channel))
	return user, token, nil
}
