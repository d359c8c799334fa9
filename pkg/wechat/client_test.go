package wechat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"peiban/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.WeChatConfig{
		AppID:    "wx-app",
		Secret:   "wx-secret",
		Endpoint: url,
		Timeout:  time.Second,
	})
}

func TestCode2Session(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "wx-app" || q.Get("secret") != "wx-secret" ||
			q.Get("grant_type") != "authorization_code" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		switch q.Get("js_code") {
		case "good":
			w.Write([]byte(`{"openid":"o-123","session_key":"k"}`))
		case "bad":
			w.Write([]byte(`{"errcode":40029,"errmsg":"invalid code"}`))
		case "empty":
			w.Write([]byte(`{}`))
		default:
			w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ctx := context.Background()

	openID, err := c.Code2Session(ctx, "good")
	if err != nil || openID != "o-123" {
		t.Fatalf("good: got %q, %v", openID, err)
	}

	_, err = c.Code2Session(ctx, "bad")
	if !errors.Is(err, ErrNoOpenID) {
		t.Errorf("bad: expected ErrNoOpenID, got %v", err)
	}
	var sessErr *SessionError
	if !errors.As(err, &sessErr) || sessErr.Code != 40029 {
		t.Errorf("bad: expected SessionError 40029, got %v", err)
	}

	if _, err := c.Code2Session(ctx, "empty"); !errors.Is(err, ErrNoOpenID) {
		t.Errorf("empty: expected ErrNoOpenID, got %v", err)
	}

	var upErr *UpstreamError
	if _, err := c.Code2Session(ctx, "garbage"); !errors.As(err, &upErr) {
		t.Errorf("garbage: expected UpstreamError, got %v", err)
	}
}

func TestCode2SessionUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var upErr *UpstreamError
	if _, err := newTestClient(url).Code2Session(context.Background(), "x"); !errors.As(err, &upErr) {
		t.Errorf("expected UpstreamError, got %v", err)
	}
}

func TestCode2SessionNotConfigured(t *testing.T) {
	c := NewClient(config.WeChatConfig{Endpoint: "http://127.0.0.1:1"})
	if c.Configured() {
		t.Fatal("client without credentials should not be configured")
	}
	if _, err := c.Code2Session(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
