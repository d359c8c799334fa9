package response

import (
	"net/http"
	"time"

	"peiban/internal/model"

	"github.com/gin-gonic/gin"
)

// 日期与时间输出格式
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
)

// ErrorResponse 统一错误结构，只有一个错误信息字段
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success 成功响应，直接输出数据对象
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// AbortWithError 错误响应并中断后续处理（中间件使用）
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// UserInfo 用户信息（不输出微信OpenID）
type UserInfo struct {
	ID        uint    `json:"id"`
	Phone     *string `json:"phone"`
	Nickname  string  `json:"nickname"`
	Gender    string  `json:"gender"`
	Signature string  `json:"signature"`
	Avatar    string  `json:"avatar"`
	CreatedAt string  `json:"created_at"`
}

// FilterUserInfo 用户 -> 响应结构
func FilterUserInfo(user *model.User) *UserInfo {
	if user == nil {
		return nil
	}

	return &UserInfo{
		ID:        user.ID,
		Phone:     user.Phone,
		Nickname:  user.Nickname,
		Gender:    user.Gender,
		Signature: user.Signature,
		Avatar:    user.Avatar,
		CreatedAt: formatTime(user.CreatedAt),
	}
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// AvatarResponse 上传头像响应
type AvatarResponse struct {
	Avatar string    `json:"avatar"`
	User   *UserInfo `json:"user"`
}

// CheckinInfo 打卡记录
type CheckinInfo struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	CheckinDate string `json:"checkin_date"`
	CreatedAt   string `json:"created_at"`
}

// FilterCheckinInfo 打卡记录 -> 响应结构
func FilterCheckinInfo(checkin *model.Checkin) *CheckinInfo {
	if checkin == nil {
		return nil
	}

	return &CheckinInfo{
		ID:          checkin.ID,
		UserID:      checkin.UserID,
		CheckinDate: time.Time(checkin.CheckinDate).Format(DateLayout),
		CreatedAt:   formatTime(checkin.CreatedAt),
	}
}

// CheckinStatusResponse 今日打卡状态
type CheckinStatusResponse struct {
	CheckedIn bool   `json:"checked_in"`
	Date      string `json:"date"`
}

// CalendarResponse 打卡日历
type CalendarResponse struct {
	CheckinDates []string `json:"checkin_dates"`
}

// LogInfo 日志
type LogInfo struct {
	ID        uint     `json:"id"`
	UserID    uint     `json:"user_id"`
	Content   string   `json:"content"`
	Images    []string `json:"images"`
	CreatedAt string   `json:"created_at"`
}

// FilterLogInfo 日志 -> 响应结构
func FilterLogInfo(log *model.Log) *LogInfo {
	if log == nil {
		return nil
	}

	return &LogInfo{
		ID:        log.ID,
		UserID:    log.UserID,
		Content:   log.Content,
		Images:    log.GetImages(),
		CreatedAt: formatTime(log.CreatedAt),
	}
}

// LogListResponse 日志分页列表
type LogListResponse struct {
	Logs    []*LogInfo `json:"logs"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
	Pages   int        `json:"pages"`
}

// MessageResponse 仅包含提示信息的响应
type MessageResponse struct {
	Message string `json:"message"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}
