package runner_test

import (
	"sync"
	"testing"

	"github.com/torosent/liftload/internal/runner"
)

func TestWorkSourceSequential(t *testing.T) {
	src := runner.NewWorkSource(3)
	for want := int64(1); want <= 3; want++ {
		got, ok := src.Next()
		if !ok || got != want {
			t.Fatalf("Next() = %d, %v; want %d, true", got, ok, want)
		}
	}
	for i := 0; i < 3; i++ {
		if id, ok := src.Next(); ok {
			t.Fatalf("Next() after exhaustion = %d, true; want false", id)
		}
	}
	if src.Issued() != 3 {
		t.Errorf("Issued() = %d, want 3", src.Issued())
	}
}

func TestWorkSourceEmpty(t *testing.T) {
	for _, total := range []int64{0, -5} {
		src := runner.NewWorkSource(total)
		if _, ok := src.Next(); ok {
			t.Errorf("NewWorkSource(%d).Next() ok = true, want false", total)
		}
		if src.Issued() != 0 || src.Total() != 0 {
			t.Errorf("Issued/Total = %d/%d, want 0/0", src.Issued(), src.Total())
		}
	}
}

// TestWorkSourceConcurrentUnique verifies every id is issued exactly once
// under contention.
func TestWorkSourceConcurrentUnique(t *testing.T) {
	const total = 10000
	src := runner.NewWorkSource(total)

	var (
		mu   sync.Mutex
		seen = make(map[int64]int, total)
		wg   sync.WaitGroup
	)
	for w := 0; w < 64; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var mine []int64
			for {
				id, ok := src.Next()
				if !ok {
					break
				}
				mine = append(mine, id)
			}
			mu.Lock()
			for _, id := range mine {
				seen[id]++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != total {
		t.Fatalf("issued %d distinct ids, want %d", len(seen), total)
	}
	for id := int64(1); id <= total; id++ {
		if seen[id] != 1 {
			t.Fatalf("id %d issued %d times", id, seen[id])
		}
	}
}
