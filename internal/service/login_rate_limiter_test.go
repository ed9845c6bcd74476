package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func newTestRedisLimiter(mock *mockRedisEvaler, window time.Duration) *redisLoginRateLimiter {
	return &redisLoginRateLimiter{
		client: mock,
		window: window,
		max:    3,
		prefix: "unibot:login:",
	}
}

func TestRedisLoginRateLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisLoginRateLimiter
		if !l.Allow("student1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := newTestRedisLimiter(&mockRedisEvaler{result: 1}, time.Minute)
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := newTestRedisLimiter(mock, 2*time.Minute)
		if !l.Allow(" Student1 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "unibot:login:student1" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisLoginAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := newTestRedisLimiter(&mockRedisEvaler{result: 4}, time.Minute)
		if l.Allow("student1") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := newTestRedisLimiter(&mockRedisEvaler{err: errors.New("redis down")}, time.Minute)
		if !l.Allow("student1") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}

func TestMemoryLoginRateLimiter(t *testing.T) {
	l := NewLoginRateLimiter(time.Minute, 2)
	if !l.Allow("student1") || !l.Allow("STUDENT1") {
		t.Fatalf("expected first two attempts allowed")
	}
	if l.Allow("student1") {
		t.Fatalf("expected third attempt denied")
	}
	if !l.Allow("student2") {
		t.Fatalf("expected other keys unaffected")
	}
}
