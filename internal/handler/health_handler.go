package handler

import (
	"context"
	"net/http"
	"time"

	"peiban/pkg/db"
	"peiban/pkg/logger"
	redispkg "peiban/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Version 服务版本
const Version = "1.0.0"

type HealthHandler struct {
	orm   *gorm.DB
	redis *redis.Client
}

// NewHealthHandler redisClient 为空表示未启用Redis
func NewHealthHandler(orm *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{orm: orm, redis: redisClient}
}

// Index 服务信息与接口列表
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "陪伴App API服务",
		"version": Version,
		"endpoints": gin.H{
			"health": "/api/health",
			"auth": gin.H{
				"send_code":    "/api/auth/send-code",
				"verify_phone": "/api/auth/verify-phone",
				"wechat":       "/api/auth/wechat",
				"me":           "/api/auth/me",
			},
			"user": gin.H{
				"profile": "/api/user/profile",
				"avatar":  "/api/user/avatar",
				"delete":  "/api/user",
			},
			"checkin": gin.H{
				"checkin":  "/api/checkin",
				"status":   "/api/checkin/status",
				"calendar": "/api/checkin/calendar",
			},
			"logs": gin.H{
				"list":   "/api/logs",
				"create": "/api/logs",
				"detail": "/api/logs/<id>",
				"delete": "/api/logs/<id>",
			},
		},
		"docs": "访问 /api/health 测试服务是否正常",
	})
}

// Health 健康检查：数据库必须可用，启用Redis时同时检查Redis
func (h *HealthHandler) Health(c *gin.Context) {
	if err := db.HealthCheck(h.orm); err != nil {
		logger.Error("数据库健康检查失败", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db-down", "message": "数据库连接失败"})
		return
	}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := redispkg.HealthCheck(ctx, h.redis); err != nil {
			logger.Error("Redis健康检查失败", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis-down", "message": "Redis连接失败"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "服务运行正常"})
}
