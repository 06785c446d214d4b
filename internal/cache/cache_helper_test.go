package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "catalog:"), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	in := testPayload{Name: "environment", Count: 12}
	if err := helper.Set(ctx, "questionnaire:environment", in, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out testPayload
	if err := helper.Get(ctx, "questionnaire:environment", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	helper, _ := newTestHelper(t)

	var out testPayload
	if err := helper.Get(context.Background(), "questionnaire:missing", &out); err != ErrCacheNotFound {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "catalog:")
	ctx := context.Background()

	if err := helper.Set(ctx, "key", testPayload{}, time.Minute); err != nil {
		t.Errorf("Set on nil client should degrade gracefully, got %v", err)
	}

	var out testPayload
	if err := helper.Get(ctx, "key", &out); err != ErrCacheNotAvailable {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"questionnaire:environment", "questionnaire:safety", "list:all"} {
		if err := helper.Set(ctx, key, testPayload{Name: key}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "questionnaire:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	if mr.Exists("catalog:questionnaire:environment") || mr.Exists("catalog:questionnaire:safety") {
		t.Error("expected questionnaire keys to be invalidated")
	}
	if !mr.Exists("catalog:list:all") {
		t.Error("expected non-matching key to survive")
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return testPayload{Name: "fetched", Count: calls}, nil
	}

	var first testPayload
	if err := helper.CacheOrExecute(ctx, "stats", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 || first.Name != "fetched" {
		t.Fatalf("expected one fetch, got calls=%d result=%+v", calls, first)
	}

	// The async write may lag; poll briefly before reading through the cache.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		var cached testPayload
		if err := helper.Get(ctx, "stats", &cached); err == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	var second testPayload
	if err := helper.CacheOrExecute(ctx, "stats", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected cached read to skip fetch, got %d calls", calls)
	}
}
