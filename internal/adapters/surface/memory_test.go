package surface_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_browser/internal/adapters/surface"
)

func TestMemory_RoundTripAndSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	m := surface.NewMemory()

	if m.HasField("offset") {
		t.Fatalf("fresh surface should have no fields")
	}
	_ = m.SetValue(ctx, "offset", "10")
	_ = m.Replace(ctx, "reviews_table", "<tr></tr>")
	_ = m.SetEnabled(ctx, "next_button", false)
	_ = m.SetClass(ctx, "7", "active")

	if v, _ := m.Value(ctx, "offset"); v != "10" {
		t.Fatalf("offset: %q", v)
	}
	if en, set := m.Enabled("next_button"); en || !set {
		t.Fatalf("next_button: enabled=%v set=%v", en, set)
	}
	if _, set := m.Enabled("prev_button"); set {
		t.Fatalf("prev_button should be unset")
	}

	snap := m.Snapshot()
	snap.Fields["offset"] = "999"
	if v, _ := m.Value(ctx, "offset"); v != "10" {
		t.Fatalf("snapshot must not alias surface state, got %q", v)
	}
	if snap.Classes["7"] != "active" || snap.Regions["reviews_table"] != "<tr></tr>" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestMemory_LockIsExclusivePerName(t *testing.T) {
	ctx := context.Background()
	m := surface.NewMemory()

	unlock, err := m.Lock(ctx, "reviews")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	other, err := m.Lock(ctx, "fav:7")
	if err != nil {
		t.Fatalf("a different name must not block: %v", err)
	}
	other()

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := m.Lock(waitCtx, "reviews"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("held lock: want deadline, got %v", err)
	}

	unlock()
	unlock() // second call is a no-op
	again, err := m.Lock(ctx, "reviews")
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	again()
}

func TestMemory_IssueAndApply(t *testing.T) {
	ctx := context.Background()
	m := surface.NewMemory()

	t1, _ := m.Issue(ctx, "fav:7")
	t2, _ := m.Issue(ctx, "fav:7")
	if t1 != 1 || t2 != 2 {
		t.Fatalf("tokens: %d %d", t1, t2)
	}
	if k, _ := m.Issue(ctx, "fav:8"); k != 1 {
		t.Fatalf("tokens are per key, got %d", k)
	}

	if ok, _ := m.Apply(ctx, "fav:7", t1); !ok {
		t.Fatalf("first reply should apply")
	}
	if ok, _ := m.Apply(ctx, "fav:7", t2); !ok {
		t.Fatalf("newer reply should apply")
	}
	if ok, _ := m.Apply(ctx, "fav:7", t1); ok {
		t.Fatalf("older reply after a newer one must not apply")
	}
}
