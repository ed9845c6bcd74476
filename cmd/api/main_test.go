package main

import (
	"context"
	"net"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"unibot/internal/config"
)

func TestOpenRedis(t *testing.T) {
	t.Run("sin direccion no conecta", func(t *testing.T) {
		if c := openRedis(context.Background(), &config.Config{}, zap.NewNop()); c != nil {
			t.Fatalf("expected nil client without REDIS_ADDR")
		}
	})

	t.Run("redis caido devuelve nil y avisa", func(t *testing.T) {
		// puerto que se libera enseguida: la conexión es rechazada
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		addr := ln.Addr().String()
		ln.Close()

		core, logs := observer.New(zap.WarnLevel)
		c := openRedis(context.Background(), &config.Config{RedisAddr: addr}, zap.New(core))
		if c != nil {
			t.Fatalf("expected nil client when ping fails")
		}
		if logs.FilterMessage("redis ping failed, using in-memory stores").Len() != 1 {
			t.Fatalf("expected ping failure logged")
		}
	})
}
