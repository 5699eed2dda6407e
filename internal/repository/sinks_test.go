package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"SentinelFeed/internal/domain/models"
	"SentinelFeed/pkg/cache"
	pkgkafka "SentinelFeed/pkg/kafka"
)

func testAlert(id string, product models.Product) models.Alert {
	a := models.Alert{
		AlertID:   id,
		Product:   product,
		Message:   "m",
		RiskScore: 91,
		Timestamp: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	if product == models.ProductSwapGuard {
		a.AlertType = models.AlertHighRisk
		a.Details = models.Details{Phone: "+254712***890", Location: "Mombasa"}
	} else {
		a.AlertType = models.AlertMultiAccount
		a.Details = models.Details{UserID: "User_7892", Amount: "KSh 45,000"}
	}
	return a
}

func testEvent(alerts ...models.Alert) models.FeedEvent {
	return models.FeedEvent{
		NewAlerts: alerts,
		Snapshot: models.FeedSnapshot{
			Mode:      models.ModeSimulated,
			Alerts:    alerts,
			Stats:     models.InitialStatistics(),
			Version:   3,
			UpdatedAt: time.Date(2025, 1, 1, 9, 0, 1, 0, time.UTC),
		},
	}
}

type fakePublisher struct {
	batches [][]pkgkafka.Message
	err     error
	closed  bool
}

func (p *fakePublisher) PublishBatch(ctx context.Context, msgs []pkgkafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, msgs)
	return nil
}

func (p *fakePublisher) Close() error { p.closed = true; return nil }

func TestKafkaSinkKeysByProductAndSkipsRepeats(t *testing.T) {
	pub := &fakePublisher{}
	s := NewKafkaAlertSink(pub)
	ctx := context.Background()

	ev := testEvent(testAlert("a1", models.ProductSwapGuard), testAlert("a2", models.ProductBetShield))
	if err := s.Consume(ctx, ev); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if err := s.Consume(ctx, ev); err != nil {
		t.Fatalf("consume repeat: %v", err)
	}
	if len(pub.batches) != 1 || len(pub.batches[0]) != 2 {
		t.Fatalf("batches = %v", pub.batches)
	}
	msg := pub.batches[0][0]
	if string(msg.Key) != "swapguard" || msg.Headers["mode"] != "simulated" {
		t.Fatalf("message = %+v", msg)
	}
	rec, ok := msg.Value.(AlertRecord)
	if !ok || rec.RiskBand != models.RiskHigh || rec.Severity != models.SeverityCritical {
		t.Fatalf("value = %#v", msg.Value)
	}

	if err := s.Consume(ctx, testEvent()); err != nil || len(pub.batches) != 1 {
		t.Fatalf("empty event should not publish")
	}
	_ = s.Close()
	if !pub.closed {
		t.Fatalf("publisher not closed")
	}
}

func TestKafkaSinkRetriesAfterFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	s := NewKafkaAlertSink(pub)
	ev := testEvent(testAlert("a1", models.ProductSwapGuard))

	if err := s.Consume(context.Background(), ev); err == nil {
		t.Fatalf("expected error")
	}
	pub.err = nil
	if err := s.Consume(context.Background(), ev); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if len(pub.batches) != 1 {
		t.Fatalf("failed alert was marked as written")
	}
}

type fakeExec struct {
	queries []string
	args    [][]interface{}
}

func (f *fakeExec) ExecContext(ctx context.Context, q string, args ...interface{}) (sql.Result, error) {
	f.queries = append(f.queries, q)
	f.args = append(f.args, args)
	return nil, nil
}

func TestClickHouseArchiveInsertsNewAlerts(t *testing.T) {
	db := &fakeExec{}
	s := NewClickHouseAlertArchive(db, "sentinel")
	ev := testEvent(testAlert("a1", models.ProductSwapGuard), testAlert("a2", models.ProductBetShield))

	if err := s.Consume(context.Background(), ev); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if err := s.Consume(context.Background(), ev); err != nil {
		t.Fatalf("consume repeat: %v", err)
	}
	if len(db.queries) != 1 {
		t.Fatalf("queries = %d", len(db.queries))
	}
	if !strings.HasPrefix(db.queries[0], "INSERT INTO sentinel.alerts (") {
		t.Fatalf("query = %s", db.queries[0])
	}
	if len(db.args[0]) != 28 {
		t.Fatalf("args = %d", len(db.args[0]))
	}
	if db.args[0][0] != "a1" || db.args[0][14] != "a2" {
		t.Fatalf("ids = %v, %v", db.args[0][0], db.args[0][14])
	}
	if db.args[0][8] != "+254712***890" || db.args[0][9] != "Mombasa" {
		t.Fatalf("swapguard details not flattened: %v", db.args[0][:14])
	}
	if db.args[0][24] != "User_7892" || db.args[0][25] != "KSh 45,000" {
		t.Fatalf("betshield details not flattened: %v", db.args[0][14:])
	}
}

func TestAlertArchiveSchemaUsesDatabase(t *testing.T) {
	stmts := AlertArchiveSchema("fraud")
	if len(stmts) != 2 || !strings.Contains(stmts[1], "fraud.alerts") {
		t.Fatalf("schema = %v", stmts)
	}
}

func TestSnapshotMirrorStoresLatest(t *testing.T) {
	m := NewSnapshotMirror(cache.NewMemoryCache(), time.Minute)
	ev := testEvent(testAlert("a1", models.ProductSwapGuard))

	if err := m.Consume(context.Background(), ev); err != nil {
		t.Fatalf("consume: %v", err)
	}
	got, err := m.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Version != 3 || got.Mode != models.ModeSimulated || len(got.Alerts) != 1 {
		t.Fatalf("snapshot = %+v", got)
	}
	if !got.Alerts[0].Timestamp.Equal(ev.Snapshot.Alerts[0].Timestamp) {
		t.Fatalf("timestamp = %v", got.Alerts[0].Timestamp)
	}
	if got.Stats != models.InitialStatistics() {
		t.Fatalf("stats = %+v", got.Stats)
	}
}

func TestAlertRecordJSON(t *testing.T) {
	ev := testEvent(testAlert("a1", models.ProductBetShield))
	b, err := json.Marshal(newAlertRecord(ev.NewAlerts[0], ev.Snapshot))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	_ = json.Unmarshal(b, &m)
	for _, k := range []string{"alert_id", "product", "risk_band", "severity", "mode", "details"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing %q in %s", k, b)
		}
	}
}

func TestSnapshotMirrorCloseDropsSnapshot(t *testing.T) {
	mc := cache.NewMemoryCache()
	m := NewSnapshotMirror(mc, time.Minute)
	if err := m.Consume(context.Background(), testEvent(testAlert("a1", models.ProductSwapGuard))); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := m.Latest(context.Background()); !errors.Is(err, cache.ErrCacheMiss) {
		t.Fatalf("latest after close = %v, want cache miss", err)
	}
}

func TestAlertIndexResolvesUntilExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	idx := NewAlertIndex(cache.NewMemoryCache(cache.WithMemoryClock(func() time.Time { return now })), time.Minute)
	ctx := context.Background()

	if err := idx.Consume(ctx, testEvent(testAlert("a1", models.ProductSwapGuard), testAlert("a2", models.ProductBetShield))); err != nil {
		t.Fatalf("consume: %v", err)
	}
	a, ok, err := idx.Lookup(ctx, "a2")
	if err != nil || !ok {
		t.Fatalf("lookup a2: ok=%v err=%v", ok, err)
	}
	if a.Product != models.ProductBetShield || a.Details.Amount != "KSh 45,000" {
		t.Fatalf("alert = %+v", a)
	}
	if _, ok, _ := idx.Lookup(ctx, "a3"); ok {
		t.Fatalf("unknown id resolved")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, err := idx.Lookup(ctx, "a1"); ok || err != nil {
		t.Fatalf("expired lookup: ok=%v err=%v", ok, err)
	}
}
