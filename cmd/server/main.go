package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peiban/config"
	"peiban/internal/model"
	"peiban/internal/server"
	dbPkg "peiban/pkg/db"
	"peiban/pkg/logger"
	redisPkg "peiban/pkg/redis"
	"peiban/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer logger.Sync()

	log.Info("=== 陪伴App服务启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("database_host", cfg.Database.Host),
		zap.String("database_name", cfg.Database.Database),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("storage", cfg.Storage.Type),
		zap.String("log_level", cfg.Log.Level),
	)
	if cfg.WeChat.AllowDevLogin {
		log.Warn("已开启微信开发登录，未配置AppID时将使用假openid，请勿用于生产环境")
	}

	// 3. 初始化数据库连接
	orm, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(orm); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(orm, &model.User{}, &model.Checkin{}, &model.Log{}); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	ctx := context.Background()

	// 3.2 Redis（可选，用于验证码存储）
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisPkg.InitRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Redis连接失败", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("Redis连接成功")
	}

	// 3.3 文件存储
	provider, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// 4. 设置Gin模式
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// 5. 创建路由
	router := server.New(cfg, orm, redisClient, provider)

	// 6. 创建HTTP服务器
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 7. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 8. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}
