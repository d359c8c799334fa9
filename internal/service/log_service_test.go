package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogContentBoundary(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "13800000000")
	ctx := context.Background()

	log, err := env.logs.Create(ctx, user.ID, strings.Repeat("字", 500), nil)
	if err != nil {
		t.Fatalf("500 chars should be accepted: %v", err)
	}
	if len(log.GetImages()) != 0 {
		t.Errorf("expected no images, got %v", log.GetImages())
	}

	if _, err := env.logs.Create(ctx, user.ID, strings.Repeat("字", 501), nil); !errors.Is(err, ErrContentTooLong) {
		t.Errorf("expected ErrContentTooLong, got %v", err)
	}
}

func TestLogRequiresContentOrImage(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "13800000000")
	ctx := context.Background()

	if _, err := env.logs.Create(ctx, user.ID, "", nil); !errors.Is(err, ErrEmptyLog) {
		t.Errorf("expected ErrEmptyLog, got %v", err)
	}
	onlyRejected := fileHeaders(t, testFile{name: "a.exe", data: []byte("x")})
	if _, err := env.logs.Create(ctx, user.ID, "", onlyRejected); !errors.Is(err, ErrEmptyLog) {
		t.Errorf("rejected files only: expected ErrEmptyLog, got %v", err)
	}

	log, err := env.logs.Create(ctx, user.ID, "", fileHeaders(t, testFile{name: "a.jpg", data: []byte("x")}))
	if err != nil {
		t.Fatalf("single image should be accepted: %v", err)
	}
	if images := log.GetImages(); len(images) != 1 || !strings.HasPrefix(images[0], "logs/") {
		t.Errorf("unexpected images %v", images)
	}
}

func TestLogKeepsFirstNineAccepted(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "13800000000")

	files := []testFile{{name: "skip.txt", data: []byte("x")}}
	for i := 1; i <= 10; i++ {
		files = append(files, testFile{name: fmt.Sprintf("%d.png", i), data: []byte("x")})
	}
	log, err := env.logs.Create(context.Background(), user.ID, "hi", fileHeaders(t, files...))
	if err != nil {
		t.Fatal(err)
	}
	images := log.GetImages()
	if len(images) != 9 {
		t.Fatalf("expected 9 images, got %d", len(images))
	}
	for _, img := range images {
		if !strings.HasSuffix(img, ".png") {
			t.Errorf("unexpected image %s", img)
		}
	}
}

func TestLogListPaging(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "13800000000")
	other := env.newUser(t, "13800000001")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := env.logs.Create(ctx, user.ID, fmt.Sprintf("log %d", i), nil); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := env.logs.Create(ctx, other.ID, "not mine", nil); err != nil {
		t.Fatal(err)
	}

	page, err := env.logs.List(ctx, user.ID, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || page.Pages != 3 || len(page.Logs) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Logs[0].Content != "log 4" || page.Logs[1].Content != "log 3" {
		t.Errorf("expected newest first, got %q, %q", page.Logs[0].Content, page.Logs[1].Content)
	}

	last, err := env.logs.List(ctx, user.ID, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(last.Logs) != 1 || last.Logs[0].Content != "log 0" {
		t.Errorf("unexpected last page %+v", last.Logs)
	}
}

func TestNormalizePaging(t *testing.T) {
	cases := []struct{ page, perPage, wantPage, wantPer int }{
		{0, 0, 1, 20},
		{-3, 5, 1, 5},
		{2, 100, 2, 100},
		{2, 101, 2, 100},
		{1, 150, 1, 100},
		{4, -1, 4, 20},
	}
	for _, tc := range cases {
		p, pp := NormalizePaging(tc.page, tc.perPage)
		if p != tc.wantPage || pp != tc.wantPer {
			t.Errorf("NormalizePaging(%d, %d) = %d, %d", tc.page, tc.perPage, p, pp)
		}
	}
}

func TestLogGetAndDeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.newUser(t, "13800000000")
	stranger := env.newUser(t, "13800000001")
	ctx := context.Background()

	log, err := env.logs.Create(ctx, owner.ID, "mine", fileHeaders(t,
		testFile{name: "a.jpg", data: []byte("a")},
		testFile{name: "b.gif", data: []byte("b")},
	))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.logs.Get(ctx, stranger.ID, log.ID); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("stranger get: expected ErrLogNotFound, got %v", err)
	}
	if err := env.logs.Delete(ctx, stranger.ID, log.ID); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("stranger delete: expected ErrLogNotFound, got %v", err)
	}

	images := log.GetImages()
	for _, img := range images {
		if _, err := os.Stat(filepath.Join(env.root, img)); err != nil {
			t.Fatalf("image %s should exist: %v", img, err)
		}
	}

	if err := env.logs.Delete(ctx, owner.ID, log.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, img := range images {
		if _, err := os.Stat(filepath.Join(env.root, img)); !os.IsNotExist(err) {
			t.Errorf("image %s should be removed", img)
		}
	}
	if _, err := env.logs.Get(ctx, owner.ID, log.ID); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("deleted log: expected ErrLogNotFound, got %v", err)
	}
	if err := env.logs.Delete(ctx, owner.ID, 12345); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("missing log: expected ErrLogNotFound, got %v", err)
	}
}
