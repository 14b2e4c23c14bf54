package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	var f Flight
	var calls int32

	const workers = 25
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := f.Do("match-42", func() (any, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(20 * time.Millisecond)
				return "result", nil
			})
			if err != nil {
				t.Errorf("flight call failed: %v", err)
			}
			if val != "result" {
				t.Errorf("unexpected value %v", val)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestFlight_DistinctKeysRunIndependently(t *testing.T) {
	var f Flight
	var calls int32

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, _, _ = f.Do(key, func() (any, error) {
				atomic.AddInt32(&calls, 1)
				return key, nil
			})
		}(key)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 calls, got %d", got)
	}
}
