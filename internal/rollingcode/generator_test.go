package rollingcode

import (
	"sync"
	"testing"
)

func TestGenerator_StartsAtOne(t *testing.T) {
	g := NewGenerator(DefaultPrefix())
	if g.Current() != 0 {
		t.Fatalf("Current() = %d on fresh generator, want 0", g.Current())
	}

	want := []string{
		"AT+SEND=0,100,7,1",
		"AT+SEND=0,100,7,2",
		"AT+SEND=0,100,7,3",
	}
	for i, w := range want {
		if got := g.Next("7"); got != w {
			t.Errorf("call %d: Next() = %q, want %q", i+1, got, w)
		}
	}
	if g.Current() != 3 {
		t.Errorf("Current() = %d, want 3", g.Current())
	}
}

func TestGenerator_StrictlyIncreasing(t *testing.T) {
	g := NewGenerator(DefaultPrefix())
	prev := g.Current()
	for i := 0; i < 1000; i++ {
		code := g.Advance()
		if code != prev+1 {
			t.Fatalf("Advance() = %d after %d, want %d", code, prev, prev+1)
		}
		prev = code
	}
}

func TestGenerator_WrapsToZero(t *testing.T) {
	tests := []struct {
		name  string
		start uint32
		want  []uint32
	}{
		{"just below max", MaxCode - 1, []uint32{MaxCode, 0, 1}},
		{"at max", MaxCode, []uint32{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeneratorAt(DefaultPrefix(), tt.start)
			for i, w := range tt.want {
				if got := g.Advance(); got != w {
					t.Errorf("advance %d: got %d, want %d", i+1, got, w)
				}
			}
		})
	}
}

func TestGenerator_WrapFormatsZero(t *testing.T) {
	g := NewGeneratorAt(DefaultPrefix(), MaxCode)
	if got, want := g.Next("lock-1"), "AT+SEND=0,100,lock-1,0"; got != want {
		t.Errorf("Next() = %q, want %q", got, want)
	}
}

func TestGenerator_CustomPrefix(t *testing.T) {
	g := NewGenerator(Prefix{Channel: 3, Length: 42})
	if got, want := g.Next("9"), "AT+SEND=3,42,9,1"; got != want {
		t.Errorf("Next() = %q, want %q", got, want)
	}
}

func TestGenerator_DeviceIDIsOpaque(t *testing.T) {
	g := NewGenerator(DefaultPrefix())
	if got, want := g.Next(""), "AT+SEND=0,100,,1"; got != want {
		t.Errorf("Next(\"\") = %q, want %q", got, want)
	}
}

func TestGenerator_ConcurrentAdvanceIssuesUniqueCodes(t *testing.T) {
	g := NewGenerator(DefaultPrefix())
	const workers, perWorker = 8, 500

	var mu sync.Mutex
	seen := make(map[uint32]bool, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				code := g.Advance()
				mu.Lock()
				if seen[code] {
					t.Errorf("code %d issued twice", code)
				}
				seen[code] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("issued %d unique codes, want %d", len(seen), workers*perWorker)
	}
	if g.Current() != workers*perWorker {
		t.Errorf("Current() = %d, want %d", g.Current(), workers*perWorker)
	}
}
