package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"peiban/config"

	"github.com/alicebob/miniredis/v2"
)

func newTestStore(t *testing.T) (*CodeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatal(err)
	}
	client, err := InitRedis(context.Background(), config.RedisConfig{Host: mr.Host(), Port: port})
	if err != nil {
		t.Fatalf("InitRedis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewCodeStore(client, "123456", 5*time.Minute), mr
}

func TestCodeStoreVerifyRequiresIssue(t *testing.T) {
	store, _ := newTestStore(t)

	ok, err := store.Verify(context.Background(), "13800000000", "123456")
	if err != nil {
		t.Fatalf("Verify without code: %v", err)
	}
	if ok {
		t.Error("code must not be accepted before it was issued")
	}
}

func TestCodeStoreIssueAndVerify(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	phone := "13800000000"

	code, err := store.Issue(ctx, phone)
	if err != nil || code != "123456" {
		t.Fatalf("Issue = %q, %v", code, err)
	}

	stored, err := mr.Get(CodeKeyPrefix + phone)
	if err != nil {
		t.Fatal(err)
	}
	if stored == code {
		t.Error("code should be stored hashed")
	}
	if ttl := mr.TTL(CodeKeyPrefix + phone); ttl != 5*time.Minute {
		t.Errorf("expected 5m ttl, got %v", ttl)
	}

	// TTL 内可重复校验
	for i := 0; i < 2; i++ {
		ok, err := store.Verify(ctx, phone, code)
		if err != nil || !ok {
			t.Fatalf("verify %d: ok=%v err=%v", i, ok, err)
		}
	}
	if ok, err := store.Verify(ctx, phone, "000000"); err != nil || ok {
		t.Errorf("wrong code: ok=%v err=%v", ok, err)
	}
	if ok, err := store.Verify(ctx, "13900000000", code); err != nil || ok {
		t.Errorf("other phone: ok=%v err=%v", ok, err)
	}

	mr.FastForward(6 * time.Minute)
	if ok, err := store.Verify(ctx, phone, code); err != nil || ok {
		t.Errorf("after ttl: ok=%v err=%v", ok, err)
	}
}

func TestHealthCheck(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := HealthCheck(ctx, store.client); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
	mr.Close()
	if err := HealthCheck(ctx, store.client); err == nil {
		t.Error("expected error when redis is down")
	}
	if err := HealthCheck(ctx, nil); err == nil {
		t.Error("expected error for nil client")
	}
}
