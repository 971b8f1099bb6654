package httpx

import (
	"testing"
	"time"
)

func TestMemoryRateLimiterWindow(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if d := rl.Allow("key", 3, time.Minute); !d.allowed {
			t.Fatalf("request %d denied", i+1)
		}
	}
	if d := rl.Allow("key", 3, time.Minute); d.allowed {
		t.Fatal("request over limit allowed")
	}
	if d := rl.Allow("other", 3, time.Minute); !d.allowed {
		t.Fatal("separate key should have its own budget")
	}
}

func TestMemoryRateLimiterZeroLimit(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	if d := rl.Allow("key", 0, time.Minute); !d.allowed {
		t.Fatal("zero limit means unlimited")
	}
}

func TestMemoryRateLimiterCleanup(t *testing.T) {
	rl := NewMemoryRateLimiter().(*memoryRateLimiter)
	defer rl.Close()

	rl.Allow("key", 1, time.Millisecond)
	rl.cleanup(time.Now().Add(time.Second))

	rl.mu.Lock()
	remaining := len(rl.entries)
	rl.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expired entries not swept: %d left", remaining)
	}
}
