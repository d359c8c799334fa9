package handler

import (
	"errors"
	"net/http"

	"peiban/internal/service"
	"peiban/pkg/jwt"
	"peiban/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetProfile 获取个人资料
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, response.FilterUserInfo(user))
}

// UpdateProfile 修改个人资料，只更新请求中出现的字段
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Nickname  *string `json:"nickname"`
		Gender    *string `json:"gender"`
		Signature *string `json:"signature"`
	}
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), jwt.GetUserID(c), service.ProfileUpdate{
		Nickname:  req.Nickname,
		Gender:    req.Gender,
		Signature: req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, response.FilterUserInfo(user))
}

// UploadAvatar 上传头像
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, err)
			return
		}
		response.BadRequest(c, "没有上传文件")
		return
	}
	if file.Filename == "" {
		response.BadRequest(c, "文件名为空")
		return
	}

	user, err := h.service.UploadAvatar(c.Request.Context(), jwt.GetUserID(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, &response.AvatarResponse{
		Avatar: user.Avatar,
		User:   response.FilterUserInfo(user),
	})
}

// DeleteAccount 注销账号
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), jwt.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, &response.MessageResponse{Message: "账号已注销"})
}
