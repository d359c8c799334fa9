package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "config/config.yaml"

// Config 应用配置结构体
// 启动时构造一次，之后只读，通过构造函数注入到各个组件
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	Upload   UploadConfig   `yaml:"upload"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	WeChat   WeChatConfig   `yaml:"wechat"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         string        `yaml:"port"`         // 服务器监听端口
	Mode         string        `yaml:"mode"`         // gin 模式: debug/release/test
	ReadTimeout  time.Duration `yaml:"readTimeout"`  // 读取超时时间
	WriteTimeout time.Duration `yaml:"writeTimeout"` // 写入超时时间
	IdleTimeout  time.Duration `yaml:"idleTimeout"`  // 空闲超时时间
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`   // 数据库驱动类型: mysql/sqlite
	Host     string `yaml:"host"`     // 数据库主机地址
	Port     int    `yaml:"port"`     // 数据库端口
	Username string `yaml:"username"` // 数据库用户名
	Password string `yaml:"password"` // 数据库密码
	Database string `yaml:"database"` // 数据库名称（sqlite 时为文件路径或 DSN）
	Charset  string `yaml:"charset"`  // 字符集
	MaxIdle  int    `yaml:"maxIdle"`  // 最大空闲连接数
	MaxOpen  int    `yaml:"maxOpen"`  // 最大打开连接数
	LogLevel string `yaml:"logLevel"` // SQL日志级别: silent/error/warn/info
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret     string        `yaml:"secret"`     // JWT密钥
	ExpireTime time.Duration `yaml:"expireTime"` // JWT过期时间
	Issuer     string        `yaml:"issuer"`     // JWT签发者
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level"`      // 日志级别
	Filename   string `yaml:"filename"`   // 日志文件名
	MaxSize    int    `yaml:"maxSize"`    // 单个日志文件最大大小(MB)
	MaxBackups int    `yaml:"maxBackups"` // 最大备份文件数
	MaxAge     int    `yaml:"maxAge"`     // 最大保存天数
	Compress   bool   `yaml:"compress"`   // 是否压缩
	Console    bool   `yaml:"console"`    // 是否同时输出到控制台
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`  // 是否启用（启用后验证码存入Redis）
	Host     string `yaml:"host"`     // Redis主机地址
	Port     int    `yaml:"port"`     // Redis端口
	Password string `yaml:"password"` // Redis密码
	DB       int    `yaml:"db"`       // Redis数据库编号
}

// UploadConfig 上传配置
type UploadConfig struct {
	Root              string   `yaml:"root"`              // 上传根目录
	MaxContentLength  int64    `yaml:"maxContentLength"`  // 请求体最大字节数
	AllowedExtensions []string `yaml:"allowedExtensions"` // 允许的扩展名
	MaxDimension      int      `yaml:"maxDimension"`      // 压缩后最长边
	Quality           int      `yaml:"quality"`           // JPEG质量
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type           string `yaml:"type"` // local/minio
	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`
}

// AuthConfig 登录验证码配置
type AuthConfig struct {
	SMSCode string        `yaml:"smsCode"` // 开发环境固定验证码
	CodeTTL time.Duration `yaml:"codeTTL"` // 验证码有效期（仅Redis模式）
}

// WeChatConfig 微信登录配置
type WeChatConfig struct {
	AppID    string        `yaml:"appId"`
	Secret   string        `yaml:"secret"`
	Endpoint string        `yaml:"endpoint"` // code换openid接口地址
	Timeout  time.Duration `yaml:"timeout"`
	// AllowDevLogin 未配置AppID时允许用授权码生成假openid，仅限开发/测试
	AllowDevLogin bool `yaml:"allowDevLogin"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LoadConfig 加载配置（混合方式：YAML文件 + .env + 环境变量）
func LoadConfig() *Config {
	return LoadConfigFrom(DefaultConfigPath)
}

// LoadConfigFrom 从指定路径加载配置
func LoadConfigFrom(filePath string) *Config {
	// 1. 首先从YAML文件加载配置，缺省项使用默认值
	config := loadFromYAML(filePath)

	// 2. .env 文件中的变量写入进程环境（已存在的环境变量不会被覆盖）
	_ = godotenv.Load()

	// 3. 用环境变量覆盖配置（环境变量优先级更高）
	overrideWithEnvVars(config)

	return config
}

// loadFromYAML 从YAML文件加载配置
func loadFromYAML(filePath string) *Config {
	config := getDefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		// 如果文件不存在，返回默认配置
		return config
	}

	// 在默认配置之上解析，文件里没写的字段保持默认值
	if err := yaml.Unmarshal(data, config); err != nil {
		return getDefaultConfig()
	}

	return config
}

// overrideWithEnvVars 用环境变量覆盖配置
func overrideWithEnvVars(config *Config) {
	// 服务器配置
	if port := getEnv("SERVER_PORT", ""); port != "" {
		config.Server.Port = port
	}
	if mode := getEnv("GIN_MODE", ""); mode != "" {
		config.Server.Mode = mode
	}
	if timeout := getEnvDuration("SERVER_READ_TIMEOUT", 0); timeout > 0 {
		config.Server.ReadTimeout = timeout
	}
	if timeout := getEnvDuration("SERVER_WRITE_TIMEOUT", 0); timeout > 0 {
		config.Server.WriteTimeout = timeout
	}
	if timeout := getEnvDuration("SERVER_IDLE_TIMEOUT", 0); timeout > 0 {
		config.Server.IdleTimeout = timeout
	}

	// 数据库配置
	if driver := getEnv("DB_DRIVER", ""); driver != "" {
		config.Database.Driver = driver
	}
	if host := getEnv("DB_HOST", ""); host != "" {
		config.Database.Host = host
	}
	if port := getEnvInt("DB_PORT", 0); port > 0 {
		config.Database.Port = port
	}
	if username := getEnv("DB_USERNAME", ""); username != "" {
		config.Database.Username = username
	}
	if password := getEnv("DB_PASSWORD", ""); password != "" {
		config.Database.Password = password
	}
	if database := getEnv("DB_DATABASE", ""); database != "" {
		config.Database.Database = database
	}
	if charset := getEnv("DB_CHARSET", ""); charset != "" {
		config.Database.Charset = charset
	}
	if maxIdle := getEnvInt("DB_MAX_IDLE", 0); maxIdle > 0 {
		config.Database.MaxIdle = maxIdle
	}
	if maxOpen := getEnvInt("DB_MAX_OPEN", 0); maxOpen > 0 {
		config.Database.MaxOpen = maxOpen
	}
	if level := getEnv("DB_LOG_LEVEL", ""); level != "" {
		config.Database.LogLevel = level
	}

	// JWT配置
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		config.JWT.Secret = secret
	}
	if expireTime := getEnvDuration("JWT_EXPIRE_TIME", 0); expireTime > 0 {
		config.JWT.ExpireTime = expireTime
	}
	if issuer := getEnv("JWT_ISSUER", ""); issuer != "" {
		config.JWT.Issuer = issuer
	}

	// 日志配置
	if level := getEnv("LOG_LEVEL", ""); level != "" {
		config.Log.Level = level
	}
	if filename := getEnv("LOG_FILENAME", ""); filename != "" {
		config.Log.Filename = filename
	}
	if maxSize := getEnvInt("LOG_MAX_SIZE", 0); maxSize > 0 {
		config.Log.MaxSize = maxSize
	}
	if maxBackups := getEnvInt("LOG_MAX_BACKUPS", 0); maxBackups > 0 {
		config.Log.MaxBackups = maxBackups
	}
	if maxAge := getEnvInt("LOG_MAX_AGE", 0); maxAge > 0 {
		config.Log.MaxAge = maxAge
	}
	config.Log.Console = getEnvBool("LOG_CONSOLE", config.Log.Console)

	// Redis配置
	config.Redis.Enabled = getEnvBool("REDIS_ENABLED", config.Redis.Enabled)
	if host := getEnv("REDIS_HOST", ""); host != "" {
		config.Redis.Host = host
	}
	if port := getEnvInt("REDIS_PORT", 0); port > 0 {
		config.Redis.Port = port
	}
	if password := getEnv("REDIS_PASSWORD", ""); password != "" {
		config.Redis.Password = password
	}
	if db := getEnvInt("REDIS_DB", -1); db >= 0 {
		config.Redis.DB = db
	}

	// 上传配置
	if root := getEnv("UPLOAD_ROOT", ""); root != "" {
		config.Upload.Root = root
	}
	if maxLen := getEnvInt("UPLOAD_MAX_CONTENT_LENGTH", 0); maxLen > 0 {
		config.Upload.MaxContentLength = int64(maxLen)
	}
	if exts := getEnvList("UPLOAD_ALLOWED_EXTENSIONS"); len(exts) > 0 {
		config.Upload.AllowedExtensions = exts
	}

	// 存储配置
	if t := getEnv("STORAGE_TYPE", ""); t != "" {
		config.Storage.Type = t
	}
	if endpoint := getEnv("MINIO_ENDPOINT", ""); endpoint != "" {
		config.Storage.MinioEndpoint = endpoint
	}
	if key := getEnv("MINIO_ACCESS_KEY", ""); key != "" {
		config.Storage.MinioAccessKey = key
	}
	if secret := getEnv("MINIO_SECRET_KEY", ""); secret != "" {
		config.Storage.MinioSecretKey = secret
	}
	if bucket := getEnv("MINIO_BUCKET", ""); bucket != "" {
		config.Storage.MinioBucket = bucket
	}
	config.Storage.MinioUseSSL = getEnvBool("MINIO_USE_SSL", config.Storage.MinioUseSSL)

	// 验证码配置
	if code := getEnv("SMS_CODE", ""); code != "" {
		config.Auth.SMSCode = code
	}
	if ttl := getEnvDuration("SMS_CODE_TTL", 0); ttl > 0 {
		config.Auth.CodeTTL = ttl
	}

	// 微信配置
	if appID := getEnv("WECHAT_APPID", ""); appID != "" {
		config.WeChat.AppID = appID
	}
	if secret := getEnv("WECHAT_SECRET", ""); secret != "" {
		config.WeChat.Secret = secret
	}
	if endpoint := getEnv("WECHAT_ENDPOINT", ""); endpoint != "" {
		config.WeChat.Endpoint = endpoint
	}
	config.WeChat.AllowDevLogin = getEnvBool("WECHAT_ALLOW_DEV_LOGIN", config.WeChat.AllowDevLogin)

	// 跨域配置
	if origins := getEnvList("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		config.CORS.AllowedOrigins = origins
	}
}

// getDefaultConfig 获取默认配置
func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "5000",
			Mode:         "release",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     3306,
			Username: "peiban",
			Password: "peiban",
			Database: "peiban_app",
			Charset:  "utf8mb4",
			MaxIdle:  10,
			MaxOpen:  100,
			LogLevel: "warn",
		},
		JWT: JWTConfig{
			Secret:     "jwt-secret-key-change-in-production",
			ExpireTime: 30 * 24 * time.Hour,
			Issuer:     "peiban",
		},
		Log: LogConfig{
			Level:      "info",
			Filename:   "logs/app.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
			Console:    true,
		},
		Redis: RedisConfig{
			Enabled:  false,
			Host:     "localhost",
			Port:     6379,
			Password: "",
			DB:       0,
		},
		Upload: UploadConfig{
			Root:              "uploads",
			MaxContentLength:  16 * 1024 * 1024,
			AllowedExtensions: []string{"png", "jpg", "jpeg", "gif", "webp"},
			MaxDimension:      1920,
			Quality:           85,
		},
		Storage: StorageConfig{
			Type:        "local",
			MinioBucket: "peiban",
		},
		Auth: AuthConfig{
			SMSCode: "123456",
			CodeTTL: 5 * time.Minute,
		},
		WeChat: WeChatConfig{
			Endpoint:      "https://api.weixin.qq.com/sns/jscode2session",
			Timeout:       5 * time.Second,
			AllowDevLogin: false,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Default 返回默认配置的副本（测试与工具使用）
func Default() *Config {
	return getDefaultConfig()
}

// 辅助函数：获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// 辅助函数：获取整数环境变量
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// 辅助函数：获取布尔环境变量
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// 辅助函数：获取时间环境变量
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// 辅助函数：获取逗号分隔的列表环境变量
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
