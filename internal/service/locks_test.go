package service

import (
	"sync"
	"testing"
)

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	k := newKeyedMutex()
	a, b := 0, 0
	counter := map[string]*int{"a": &a, "b": &b}
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				unlock := k.Lock(key)
				*counter[key]++
				unlock()
			}(key)
		}
	}
	wg.Wait()

	if a != 50 || b != 50 {
		t.Fatalf("lost updates: a=%d b=%d", a, b)
	}
	if n := k.size(); n != 0 {
		t.Fatalf("expected entries to be released, got %d", n)
	}
}
