package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/caracaca/caracaca-client/internal/relay"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	addr := os.Getenv("CARACACA_RELAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	h := relay.NewHub(context.Background(), log)

	log.Info("relay listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, relay.Routes(h, log)); err != nil {
		log.Fatal("relay server stopped", zap.Error(err))
	}
}
