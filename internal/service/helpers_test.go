package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"testing"

	"peiban/config"
	"peiban/internal/model"
	"peiban/internal/repository"
	"peiban/pkg/db"
	"peiban/pkg/jwt"
	"peiban/pkg/storage"
	"peiban/pkg/upload"
	"peiban/pkg/wechat"

	"gorm.io/gorm"
)

type testEnv struct {
	cfg      *config.Config
	orm      *gorm.DB
	root     string
	uploads  *upload.Handler
	jwt      *jwt.JWTService
	auth     *AuthService
	users    *UserService
	checkins *CheckinService
	logs     *LogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Database = config.DatabaseConfig{
		Driver:   "sqlite",
		Database: "file:" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared",
		MaxOpen:  1,
		LogLevel: "silent",
	}
	cfg.Upload.Root = t.TempDir()

	orm, err := db.InitDB(cfg.Database)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { db.CloseDB(orm) })
	if err := db.AutoMigrate(orm, &model.User{}, &model.Checkin{}, &model.Log{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	local, err := storage.NewLocal(cfg.Upload.Root)
	if err != nil {
		t.Fatal(err)
	}
	uploads := upload.NewHandler(cfg.Upload, local)
	jwtService := jwt.NewJWTService(cfg.JWT)
	userRepo := repository.NewUserRepository(orm)

	return &testEnv{
		cfg:      cfg,
		orm:      orm,
		root:     cfg.Upload.Root,
		uploads:  uploads,
		jwt:      jwtService,
		auth:     NewAuthService(cfg, userRepo, jwtService, StaticCodeVerifier{Code: cfg.Auth.SMSCode}, wechat.NewClient(cfg.WeChat)),
		users:    NewUserService(userRepo, uploads),
		checkins: NewCheckinService(repository.NewCheckinRepository(orm)),
		logs:     NewLogService(repository.NewLogRepository(orm), uploads),
	}
}

// newUser 通过手机号登录创建一个用户
func (e *testEnv) newUser(t *testing.T, phone string) *model.User {
	t.Helper()
	user, _, err := e.auth.VerifyPhone(context.Background(), phone, e.cfg.Auth.SMSCode)
	if err != nil {
		t.Fatalf("VerifyPhone(%s): %v", phone, err)
	}
	return user
}

type testFile struct {
	field string
	name  string
	data  []byte
}

// fileHeaders 构造 multipart 文件头，顺序与参数一致
func fileHeaders(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for i, f := range files {
		field := f.field
		if field == "" {
			field = fmt.Sprintf("image%d", i)
		}
		part, err := w.CreateFormFile(field, f.name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(f.data)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	headers := make([]*multipart.FileHeader, 0, len(files))
	for i, f := range files {
		field := f.field
		if field == "" {
			field = fmt.Sprintf("image%d", i)
		}
		headers = append(headers, form.File[field]...)
	}
	return headers
}
