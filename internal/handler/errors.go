package handler

import (
	"errors"
	"net/http"

	"peiban/internal/service"
	"peiban/pkg/logger"
	"peiban/pkg/response"
	"peiban/pkg/wechat"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 客户端参数错误，400
var badRequestErrors = []error{
	service.ErrPhoneRequired,
	service.ErrInvalidPhone,
	service.ErrInvalidCode,
	service.ErrCodeRequired,
	service.ErrAlreadyCheckedIn,
	service.ErrContentTooLong,
	service.ErrEmptyLog,
	service.ErrUnsupportedFile,
	service.ErrNicknameTooLong,
	service.ErrSignatureTooLong,
	service.ErrInvalidGender,
}

// respondError 把业务错误映射为HTTP状态码
func respondError(c *gin.Context, err error) {
	var (
		upstream *wechat.UpstreamError
		tooLarge *http.MaxBytesError
	)

	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrLogNotFound):
		response.NotFound(c, err.Error())
		return
	case errors.As(err, &tooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "请求体过大")
		return
	case errors.As(err, &upstream):
		response.InternalError(c, "微信登录失败: "+upstream.Error())
		return
	case errors.Is(err, wechat.ErrNoOpenID):
		response.BadRequest(c, "微信登录失败")
		return
	case errors.Is(err, service.ErrWeChatNotConfigured):
		response.InternalError(c, err.Error())
		return
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			response.BadRequest(c, err.Error())
			return
		}
	}

	_ = c.Error(err)
	logger.Error("请求处理失败",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	response.InternalError(c, "服务器内部错误")
}

// bindJSON 解析JSON请求体，失败时直接返回400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "请求体过大")
			return false
		}
		response.BadRequest(c, "请求参数错误")
		return false
	}
	return true
}
