package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"

	"SentinelFeed/internal/mockapi"
	xhttp "SentinelFeed/pkg/http"
	applogger "SentinelFeed/pkg/logger"
	"SentinelFeed/pkg/util"
)

func main() {
	seed := flag.Uint64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	gen := mockapi.NewGenerator(gofakeit.New(*seed), nil)
	srv := xhttp.NewServer([]xhttp.Handler{mockapi.NewHandler(l.With("mockapi"), gen)},
		xhttp.WithPort(util.ParseIntDefault(os.Getenv("PORT"), 8000)),
		xhttp.WithMetricsPath(""),
		xhttp.WithLogger(l),
	)

	go func() {
		if err := srv.Serve(); err != nil {
			l.Error("mock backend stopped", applogger.Error(err))
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		l.Error("shutdown error", applogger.Error(err))
	}
}
