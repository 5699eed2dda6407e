package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"SentinelFeed/internal/domain/models"
)

func TestRecordModeIsExclusive(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())
	r.RecordMode(models.ModeConnecting)
	r.RecordMode(models.ModeLive)

	if v := testutil.ToFloat64(r.mode.WithLabelValues("live")); v != 1 {
		t.Fatalf("live gauge = %v", v)
	}
	if v := testutil.ToFloat64(r.mode.WithLabelValues("connecting")); v != 0 {
		t.Fatalf("connecting gauge = %v", v)
	}
}

func TestRecordFetchAndSinkResults(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())
	r.RecordFetch("alerts", nil, 0.1)
	r.RecordFetch("alerts", errors.New("boom"), 0.2)
	r.RecordSink("kafka", errors.New("down"))
	r.RecordBufferSize(5)

	if v := testutil.ToFloat64(r.fetches.WithLabelValues("alerts", "error")); v != 1 {
		t.Fatalf("fetch errors = %v", v)
	}
	if v := testutil.ToFloat64(r.sinkWrites.WithLabelValues("kafka", "error")); v != 1 {
		t.Fatalf("sink errors = %v", v)
	}
	if v := testutil.ToFloat64(r.bufferSize); v != 5 {
		t.Fatalf("buffer size = %v", v)
	}
}

func TestNewSharesDefaultRecorder(t *testing.T) {
	a, b := New(), New()
	if a != b {
		t.Fatalf("expected one recorder on the default registry")
	}
}
