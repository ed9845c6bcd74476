package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedisKV guarda claves en un map y recuerda el TTL pedido por clave.
type fakeRedisKV struct {
	values map[string]interface{}
	ttls   map[string]time.Duration

	setErr    error
	existsErr error
}

func newFakeRedisKV() *fakeRedisKV {
	return &fakeRedisKV{
		values: make(map[string]interface{}),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeRedisKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if f.setErr != nil {
		cmd.SetErr(f.setErr)
		return cmd
	}
	f.values[key] = value
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedisKV) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.existsErr != nil {
		cmd.SetErr(f.existsErr)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (f *fakeRedisKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			delete(f.ttls, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func newFakeRedisStore() (*redisRefreshTokenStore, *fakeRedisKV) {
	kv := newFakeRedisKV()
	return &redisRefreshTokenStore{client: kv, prefix: refreshTokenPrefix}, kv
}

func TestNewRedisRefreshTokenStore_NilClient(t *testing.T) {
	if store := NewRedisRefreshTokenStore(nil); store != nil {
		t.Fatalf("expected nil store without client, got %T", store)
	}
}

func TestRedisRefreshTokenStore_TTL(t *testing.T) {
	cases := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"ttl cero usa el default", 0, defaultRefreshKeyTTL},
		{"ttl negativo usa el default", -time.Second, defaultRefreshKeyTTL},
		{"ttl explicito se respeta", 30 * time.Minute, 30 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, kv := newFakeRedisStore()
			if err := store.Store("jti", "s1", tc.ttl); err != nil {
				t.Fatalf("store: %v", err)
			}
			if got := kv.ttls["unibot:refresh:jti"]; got != tc.want {
				t.Fatalf("expected ttl %v, got %v", tc.want, got)
			}
			if kv.values["unibot:refresh:jti"] != "s1" {
				t.Fatalf("expected user id as value, got %v", kv.values["unibot:refresh:jti"])
			}
		})
	}
}

func TestRefreshTokenStores_TrimJTI(t *testing.T) {
	redisStore, kv := newFakeRedisStore()
	stores := map[string]RefreshTokenStore{
		"memoria": NewMemoryRefreshTokenStore(),
		"redis":   redisStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			if err := store.Store("  j1\t", "s1", time.Minute); err != nil {
				t.Fatalf("store: %v", err)
			}
			if ok, err := store.Exists("j1"); err != nil || !ok {
				t.Fatalf("expected trimmed jti stored, got %v, %v", ok, err)
			}
			if err := store.Revoke(" j1 "); err != nil {
				t.Fatalf("revoke: %v", err)
			}
			if ok, _ := store.Exists("j1"); ok {
				t.Fatalf("expected jti revoked after trimmed revoke")
			}
			if err := store.Store("   ", "s1", time.Minute); err != nil {
				t.Fatalf("blank jti should be ignored, got %v", err)
			}
			if ok, _ := store.Exists(""); ok {
				t.Fatalf("blank jti must never exist")
			}
		})
	}
	if len(kv.values) != 0 {
		t.Fatalf("expected no keys left in redis, got %v", kv.values)
	}
}

func TestMemoryRefreshTokenStore_Expired(t *testing.T) {
	store := NewMemoryRefreshTokenStore()
	if err := store.Store("old", "s1", -time.Second); err != nil {
		t.Fatalf("store: %v", err)
	}
	if ok, err := store.Exists("old"); err != nil || ok {
		t.Fatalf("expected expired jti absent, got %v, %v", ok, err)
	}
}

func TestJWTService_RotationWithRedisStore(t *testing.T) {
	store, kv := newFakeRedisStore()
	svc := NewJWTService("secret", time.Minute, time.Hour, store)

	pair, err := svc.GeneratePair(testStudent())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if len(kv.values) != 1 {
		t.Fatalf("expected one refresh jti stored, got %d", len(kv.values))
	}
	for key, ttl := range kv.ttls {
		if ttl != time.Hour {
			t.Fatalf("expected refresh ttl on %s, got %v", key, ttl)
		}
	}

	rotated, err := svc.RefreshPair(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(kv.values) != 1 {
		t.Fatalf("expected old jti replaced by new one, got %d keys", len(kv.values))
	}
	if _, err := svc.RefreshPair(pair.RefreshToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected reused refresh rejected, got %v", err)
	}

	if err := svc.RevokeRefresh(rotated.RefreshToken); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(kv.values) != 0 {
		t.Fatalf("expected no jti after logout, got %v", kv.values)
	}
}

func TestJWTService_RedisStoreErrors(t *testing.T) {
	t.Run("falla al guardar corta la emision", func(t *testing.T) {
		store, kv := newFakeRedisStore()
		kv.setErr = errors.New("redis down")
		svc := NewJWTService("secret", time.Minute, time.Hour, store)
		if _, err := svc.GeneratePair(testStudent()); err == nil {
			t.Fatalf("expected error when jti cannot be stored")
		}
	})

	t.Run("falla al consultar invalida el refresh", func(t *testing.T) {
		store, kv := newFakeRedisStore()
		svc := NewJWTService("secret", time.Minute, time.Hour, store)
		pair, err := svc.GeneratePair(testStudent())
		if err != nil {
			t.Fatalf("generate pair: %v", err)
		}
		kv.existsErr = errors.New("redis down")
		if _, err := svc.RefreshPair(pair.RefreshToken); !errors.Is(err, ErrJWTInvalid) {
			t.Fatalf("expected ErrJWTInvalid, got %v", err)
		}
	})
}
