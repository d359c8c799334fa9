package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"peiban/internal/model"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "13800000000")
	ctx := context.Background()

	updated, err := env.users.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Nickname: strPtr("小明"),
		Gender:   strPtr(model.GenderFemale),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Nickname != "小明" || updated.Gender != model.GenderFemale {
		t.Errorf("unexpected user %+v", updated)
	}

	// 未提供的字段保持不变
	updated, err = env.users.UpdateProfile(ctx, user.ID, ProfileUpdate{Signature: strPtr("今天也要开心")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Nickname != "小明" || updated.Signature != "今天也要开心" {
		t.Errorf("unexpected user %+v", updated)
	}

	cases := []struct {
		name string
		in   ProfileUpdate
		want error
	}{
		{"long nickname", ProfileUpdate{Nickname: strPtr(strings.Repeat("名", 51))}, ErrNicknameTooLong},
		{"long signature", ProfileUpdate{Signature: strPtr(strings.Repeat("签", 201))}, ErrSignatureTooLong},
		{"bad gender", ProfileUpdate{Gender: strPtr("robot")}, ErrInvalidGender},
	}
	for _, tc := range cases {
		if _, err := env.users.UpdateProfile(ctx, user.ID, tc.in); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if _, err := env.users.UpdateProfile(ctx, 9999, ProfileUpdate{}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUploadAvatarReplacesOldFile(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "13800000000")
	ctx := context.Background()

	first, err := env.users.UploadAvatar(ctx, user.ID, fileHeaders(t, testFile{field: "avatar", name: "me.jpg", data: []byte("1")})[0])
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	oldPath := first.Avatar
	if !strings.HasPrefix(oldPath, "avatars/") {
		t.Fatalf("unexpected avatar %q", oldPath)
	}

	second, err := env.users.UploadAvatar(ctx, user.ID, fileHeaders(t, testFile{field: "avatar", name: "me2.png", data: []byte("2")})[0])
	if err != nil {
		t.Fatal(err)
	}
	if second.Avatar == oldPath {
		t.Fatal("avatar should change")
	}
	if _, err := os.Stat(filepath.Join(env.root, oldPath)); !os.IsNotExist(err) {
		t.Errorf("old avatar should be removed")
	}
	if _, err := os.Stat(filepath.Join(env.root, second.Avatar)); err != nil {
		t.Errorf("new avatar missing: %v", err)
	}

	stored, err := env.users.Get(ctx, user.ID)
	if err != nil || stored.Avatar != second.Avatar {
		t.Errorf("stored avatar %q, want %q (%v)", stored.Avatar, second.Avatar, err)
	}

	bad := fileHeaders(t, testFile{field: "avatar", name: "me.bmp", data: []byte("3")})[0]
	if _, err := env.users.UploadAvatar(ctx, user.ID, bad); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "13800000000")
	keep := env.newUser(t, "13800000001")
	ctx := context.Background()

	withAvatar, err := env.users.UploadAvatar(ctx, user.ID, fileHeaders(t, testFile{field: "avatar", name: "a.jpg", data: []byte("a")})[0])
	if err != nil {
		t.Fatal(err)
	}
	log, err := env.logs.Create(ctx, user.ID, "bye", fileHeaders(t, testFile{name: "p.jpg", data: []byte("p")}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.checkins.Checkin(ctx, user.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.checkins.Checkin(ctx, keep.ID); err != nil {
		t.Fatal(err)
	}

	if err := env.users.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	files := append([]string{withAvatar.Avatar}, log.GetImages()...)
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(env.root, f)); !os.IsNotExist(err) {
			t.Errorf("file %s should be removed", f)
		}
	}
	if _, err := env.users.Get(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	var checkins int64
	env.orm.Model(&model.Checkin{}).Count(&checkins)
	if checkins != 1 {
		t.Errorf("expected only the other user's checkin to remain, got %d", checkins)
	}

	// 同一手机号重新登录得到新用户
	again := env.newUser(t, "13800000000")
	if again.ID == user.ID {
		t.Error("expected a new user after account deletion")
	}
}
