package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SentinelFeed/internal/domain/models"
	"SentinelFeed/internal/service/feedstream"
	applogger "SentinelFeed/pkg/logger"
)

// feedtail follows a running feed service and prints every alert the first
// time it shows up.
func main() {
	addr := flag.String("addr", "http://localhost:8080", "feed service base URL")
	ping := flag.Duration("ping", 30*time.Second, "ping interval")
	window := flag.Int("window", feedstream.DefaultTailWindow, "alert IDs remembered for de-duplication")
	flag.Parse()

	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := feedstream.New(*addr, *ping, l)
	if err != nil {
		log.Fatalf("feed client: %v", err)
	}
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer client.Close()

	tail := feedstream.NewTail(*window)
	var mode models.ConnectionMode
	snaps, errs := client.Read(ctx)
	for snap := range snaps {
		if snap.Mode != mode {
			mode = snap.Mode
			fmt.Fprintf(os.Stdout, "== %s\n", mode.Label())
		}
		for _, a := range tail.Fresh(snap) {
			fmt.Fprintf(os.Stdout, "%s  %-9s %-18s %3d  %s\n",
				a.Timestamp.Local().Format("15:04:05"), a.Product, a.AlertType, a.RiskScore, a.Message)
		}
	}
	if err := <-errs; err != nil {
		l.Error("stream ended", applogger.Error(err))
		os.Exit(1)
	}
}
