package feed

import (
	"strconv"
	"testing"

	"SentinelFeed/internal/domain/models"
)

func alertN(i int) models.Alert {
	return models.Alert{AlertID: "a" + strconv.Itoa(i), Product: models.ProductSwapGuard}
}

func ids(alerts []models.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.AlertID
	}
	return out
}

func TestBufferPushNewestFirst(t *testing.T) {
	b := NewBuffer(8)
	for i := 1; i <= 3; i++ {
		if ev := b.Push(alertN(i)); ev != nil {
			t.Fatalf("unexpected eviction at %d", i)
		}
	}
	got := ids(b.Snapshot())
	want := []string{"a3", "a2", "a1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
}

func TestBufferNeverExceedsCapacity(t *testing.T) {
	b := NewBuffer(8)
	for i := 1; i <= 100; i++ {
		evicted := b.Push(alertN(i))
		if b.Len() > 8 {
			t.Fatalf("len %d exceeds capacity", b.Len())
		}
		if i > 8 {
			if evicted == nil {
				t.Fatalf("push %d: expected eviction", i)
			}
			if want := "a" + strconv.Itoa(i-8); evicted.AlertID != want {
				t.Fatalf("push %d evicted %s, want %s", i, evicted.AlertID, want)
			}
		}
		if b.Snapshot()[0].AlertID != "a"+strconv.Itoa(i) {
			t.Fatalf("head is not the latest alert")
		}
	}
}

func TestBufferNinePushesKeepsTwoThroughNine(t *testing.T) {
	b := NewBuffer(8)
	for i := 1; i <= 9; i++ {
		b.Push(alertN(i))
	}
	got := ids(b.Snapshot())
	if len(got) != 8 {
		t.Fatalf("len = %d", len(got))
	}
	for i, id := range got {
		if want := "a" + strconv.Itoa(9-i); id != want {
			t.Fatalf("snapshot = %v", got)
		}
	}
	if b.Contains("a1") {
		t.Fatalf("a1 should have been evicted")
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBuffer(8)
	b.Push(alertN(1))

	b.Replace([]models.Alert{alertN(7), alertN(6), alertN(5)})
	got := ids(b.Snapshot())
	if len(got) != 3 || got[0] != "a7" || got[2] != "a5" {
		t.Fatalf("snapshot = %v", got)
	}

	b.Replace(nil)
	if b.Len() != 0 {
		t.Fatalf("replace with empty should clear, len = %d", b.Len())
	}

	many := make([]models.Alert, 0, 10)
	for i := 10; i > 0; i-- {
		many = append(many, alertN(i))
	}
	b.Replace(many)
	got = ids(b.Snapshot())
	if len(got) != 8 || got[0] != "a10" || got[7] != "a3" {
		t.Fatalf("snapshot = %v", got)
	}
}

func TestBufferSnapshotIsACopy(t *testing.T) {
	b := NewBuffer(2)
	b.Push(alertN(1))
	snap := b.Snapshot()
	snap[0].AlertID = "mutated"
	if b.Snapshot()[0].AlertID != "a1" {
		t.Fatalf("snapshot aliased internal storage")
	}
}
