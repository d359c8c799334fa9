package server

import (
	"net/http"

	"peiban/config"
	"peiban/internal/handler"
	"peiban/internal/repository"
	"peiban/internal/service"
	"peiban/pkg/jwt"
	"peiban/pkg/logger"
	"peiban/pkg/metrics"
	redispkg "peiban/pkg/redis"
	"peiban/pkg/response"
	"peiban/pkg/storage"
	"peiban/pkg/upload"
	"peiban/pkg/wechat"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handlers 路由用到的全部处理器
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Checkin *handler.CheckinHandler
	Log     *handler.LogHandler
	Health  *handler.HealthHandler
	File    *handler.FileHandler
}

// New 组装仓储、服务、处理器并返回路由
// redisClient 为空时使用固定验证码
func New(cfg *config.Config, orm *gorm.DB, redisClient *redis.Client, provider storage.Provider) *gin.Engine {
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	uploads := upload.NewHandler(cfg.Upload, provider)

	var codes service.CodeVerifier = service.StaticCodeVerifier{Code: cfg.Auth.SMSCode}
	if redisClient != nil {
		codes = redispkg.NewCodeStore(redisClient, cfg.Auth.SMSCode, cfg.Auth.CodeTTL)
	}

	userRepo := repository.NewUserRepository(orm)
	authSvc := service.NewAuthService(cfg, userRepo, jwtSvc, codes, wechat.NewClient(cfg.WeChat))
	userSvc := service.NewUserService(userRepo, uploads)
	checkinSvc := service.NewCheckinService(repository.NewCheckinRepository(orm))
	logSvc := service.NewLogService(repository.NewLogRepository(orm), uploads)

	return NewRouter(cfg, jwtSvc, Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		User:    handler.NewUserHandler(userSvc),
		Checkin: handler.NewCheckinHandler(checkinSvc),
		Log:     handler.NewLogHandler(logSvc),
		Health:  handler.NewHealthHandler(orm, redisClient),
		File:    handler.NewFileHandler(provider),
	})
}

// NewRouter 注册中间件与路由
func NewRouter(cfg *config.Config, jwtSvc *jwt.JWTService, h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(logger.RequestLogger())
	router.Use(logger.ErrorLoggerMiddleware())
	router.Use(cors.New(corsConfig(cfg.CORS)))
	router.Use(metrics.MetricsMiddleware())
	router.Use(BodyLimit(cfg.Upload.MaxContentLength))

	router.GET("/", h.Health.Index)
	router.GET("/metrics", metrics.PrometheusHandler())
	router.GET("/uploads/*path", h.File.Serve)

	api := router.Group("/api")
	api.GET("/health", h.Health.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/send-code", h.Auth.SendCode)
		auth.POST("/verify-phone", h.Auth.VerifyPhone)
		auth.POST("/wechat", h.Auth.WeChatLogin)
		auth.GET("/me", jwtSvc.AuthMiddleware(), h.Auth.Me)
	}

	// 以下接口需要认证
	authed := api.Group("")
	authed.Use(jwtSvc.AuthMiddleware())
	{
		authed.GET("/user/profile", h.User.GetProfile)
		authed.PUT("/user/profile", h.User.UpdateProfile)
		authed.POST("/user/avatar", h.User.UploadAvatar)
		authed.DELETE("/user", h.User.DeleteAccount)

		authed.POST("/checkin", h.Checkin.Checkin)
		authed.GET("/checkin/status", h.Checkin.Status)
		authed.GET("/checkin/calendar", h.Checkin.Calendar)

		authed.GET("/logs", h.Log.List)
		authed.POST("/logs", h.Log.Create)
		authed.GET("/logs/:id", h.Log.Get)
		authed.DELETE("/logs/:id", h.Log.Delete)
	}

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "接口不存在")
	})

	return router
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if len(cfg.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.AllowedOrigins
	return c
}

// BodyLimit 限制请求体大小，超出返回413
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			response.AbortWithError(c, http.StatusRequestEntityTooLarge, "请求体过大")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
