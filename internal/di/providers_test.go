package di

import (
	"testing"

	"SentinelFeed/pkg/config"
	"SentinelFeed/pkg/metrics"
)

func TestProvideBackendNilWithoutEndpoint(t *testing.T) {
	cfg, err := config.Parse([]byte("environment: test\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	// must be an untyped nil so the prober sees no endpoint
	if b := ProvideBackend(cfg, nil); b != nil {
		t.Fatalf("expected nil backend, got %T", b)
	}
}

func TestProvideFeedSinksSkipsDisabled(t *testing.T) {
	cfg, err := config.Parse([]byte("environment: test\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if sinks := ProvideFeedSinks(cfg, nil, nil, nil, nil); len(sinks) != 0 {
		t.Fatalf("sinks = %d", len(sinks))
	}
}

func TestInitializeAppWithDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("environment: test\nlog:\n  level: error\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	// metrics are on by default and register on the process-wide registry
	for i := 0; i < 2; i++ {
		app, err := InitializeApp(cfg)
		if err != nil {
			t.Fatalf("initialize #%d: %v", i, err)
		}
		if app == nil {
			t.Fatalf("nil app")
		}
	}
}

func TestProvideMetricsDisabled(t *testing.T) {
	cfg, err := config.Parse([]byte("environment: test\nmetrics:\n  enabled: false\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if _, ok := ProvideMetrics(cfg).(metrics.Nop); !ok {
		t.Fatalf("expected nop recorder")
	}
}

func TestProvideAlertIndexFallsBackToMemory(t *testing.T) {
	cfg, err := config.Parse([]byte("environment: test\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	idx := ProvideAlertIndex(cfg, nil)
	if idx == nil {
		t.Fatalf("expected an in-process index without redis")
	}
	if sinks := ProvideFeedSinks(cfg, nil, nil, nil, idx); len(sinks) != 1 || sinks[0].Name() != "alert_index" {
		t.Fatalf("sinks = %v", sinks)
	}

	cfg.Feed.AlertIndexTTL = 0
	if idx := ProvideAlertIndex(cfg, nil); idx != nil {
		t.Fatalf("expected no index with zero ttl")
	}
}
