package handler

import (
	"peiban/internal/service"
	"peiban/pkg/jwt"
	"peiban/pkg/response"

	"github.com/gin-gonic/gin"
)

type CheckinHandler struct {
	service *service.CheckinService
}

func NewCheckinHandler(s *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{service: s}
}

// Checkin 今日打卡
func (h *CheckinHandler) Checkin(c *gin.Context) {
	checkin, err := h.service.Checkin(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, response.FilterCheckinInfo(checkin))
}

// Status 今日打卡状态
func (h *CheckinHandler) Status(c *gin.Context) {
	checked, today, err := h.service.Status(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, &response.CheckinStatusResponse{
		CheckedIn: checked,
		Date:      today.Format(response.DateLayout),
	})
}

// Calendar 最近90天打卡日历
func (h *CheckinHandler) Calendar(c *gin.Context) {
	dates, err := h.service.Calendar(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	result := &response.CalendarResponse{CheckinDates: make([]string, 0, len(dates))}
	for _, d := range dates {
		result.CheckinDates = append(result.CheckinDates, d.Format(response.DateLayout))
	}
	response.Success(c, result)
}
