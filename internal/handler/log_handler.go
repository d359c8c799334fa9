package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"peiban/internal/service"
	"peiban/pkg/jwt"
	"peiban/pkg/response"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	service *service.LogService
}

func NewLogHandler(s *service.LogService) *LogHandler {
	return &LogHandler{service: s}
}

// Create 发布日志（multipart: content + image0..image8）
func (h *LogHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, err)
			return
		}
		response.BadRequest(c, "请求参数错误")
		return
	}

	var files []*multipart.FileHeader
	if form != nil {
		files = imageFiles(form)
	}

	log, err := h.service.Create(c.Request.Context(), jwt.GetUserID(c), c.PostForm("content"), files)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, response.FilterLogInfo(log))
}

// List 分页获取日志
func (h *LogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	result, err := h.service.List(c.Request.Context(), jwt.GetUserID(c), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	logs := make([]*response.LogInfo, 0, len(result.Logs))
	for i := range result.Logs {
		logs = append(logs, response.FilterLogInfo(&result.Logs[i]))
	}
	response.Success(c, &response.LogListResponse{
		Logs:    logs,
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PerPage,
		Pages:   result.Pages,
	})
}

// Get 日志详情
func (h *LogHandler) Get(c *gin.Context) {
	id, ok := logID(c)
	if !ok {
		return
	}
	log, err := h.service.Get(c.Request.Context(), jwt.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, response.FilterLogInfo(log))
}

// Delete 删除日志
func (h *LogHandler) Delete(c *gin.Context) {
	id, ok := logID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), jwt.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, &response.MessageResponse{Message: "删除成功"})
}

// logID 解析路径中的日志ID，非数字按不存在处理
func logID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, service.ErrLogNotFound.Error())
		return 0, false
	}
	return uint(id), true
}

// imageFiles 取出以 image 开头的文件字段，按数字后缀排序，其余按名称排在后面
func imageFiles(form *multipart.Form) []*multipart.FileHeader {
	keys := make([]string, 0, len(form.File))
	for key := range form.File {
		if strings.HasPrefix(key, "image") {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return imageKeyLess(keys[i], keys[j])
	})

	var files []*multipart.FileHeader
	for _, key := range keys {
		files = append(files, form.File[key]...)
	}
	return files
}

func imageKeyLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimPrefix(a, "image"))
	nb, errB := strconv.Atoi(strings.TrimPrefix(b, "image"))
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
