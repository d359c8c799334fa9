package handler

import (
	"peiban/internal/service"
	"peiban/pkg/jwt"
	"peiban/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// SendCode 发送验证码（开发环境返回验证码）
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
	}
	if !bindJSON(c, &req) {
		return
	}
	code, err := h.service.SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message": "验证码已发送",
		"code":    code,
	})
}

// VerifyPhone 手机号验证码登录
func (h *AuthHandler) VerifyPhone(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if !bindJSON(c, &req) {
		return
	}
	user, token, err := h.service.VerifyPhone(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, &response.LoginResponse{
		Token: token,
		User:  response.FilterUserInfo(user),
	})
}

// WeChatLogin 微信小程序登录
func (h *AuthHandler) WeChatLogin(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if !bindJSON(c, &req) {
		return
	}
	user, token, err := h.service.WeChatLogin(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, &response.LoginResponse{
		Token: token,
		User:  response.FilterUserInfo(user),
	})
}

// Me 当前登录用户
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, response.FilterUserInfo(user))
}
