package wechat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"peiban/config"
)

// ErrNoOpenID 微信接口返回成功但没有openid（授权码无效等）
var ErrNoOpenID = errors.New("wechat: no openid in response")

// ErrNotConfigured 未配置AppID/Secret
var ErrNotConfigured = errors.New("wechat: appid or secret not configured")

// UpstreamError 调用微信接口失败（网络、超时、响应无法解析）
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

// SessionError 微信接口返回了错误码
type SessionError struct {
	Code    int
	Message string
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("wechat errcode %d: %s", e.Code, e.Message)
}

func (e *SessionError) Is(target error) bool { return target == ErrNoOpenID }

// Client 小程序登录 code2session 客户端
type Client struct {
	appID    string
	secret   string
	endpoint string
	http     *http.Client
}

// NewClient 创建微信客户端
func NewClient(cfg config.WeChatConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		appID:    cfg.AppID,
		secret:   cfg.Secret,
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Configured 是否配置了AppID和Secret
func (c *Client) Configured() bool {
	return c.appID != "" && c.secret != ""
}

type sessionResponse struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// Code2Session 用登录授权码换取openid
func (c *Client) Code2Session(ctx context.Context, code string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	q := url.Values{}
	q.Set("appid", c.appID)
	q.Set("secret", c.secret)
	q.Set("js_code", code)
	q.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &UpstreamError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if body.ErrCode != 0 {
		return "", &SessionError{Code: body.ErrCode, Message: body.ErrMsg}
	}
	if body.OpenID == "" {
		return "", ErrNoOpenID
	}
	return body.OpenID, nil
}
