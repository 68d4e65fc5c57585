package mem

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInflightGuard_AcquireRelease(t *testing.T) {
	g := NewInflightGuard()

	assert.True(t, g.Acquire("a", time.Minute))
	assert.False(t, g.Acquire("a", time.Minute))
	assert.True(t, g.Acquire("b", time.Minute))
	assert.True(t, g.Held("a"))

	g.Release("a")
	assert.False(t, g.Held("a"))
	assert.True(t, g.Acquire("a", time.Minute))
}

func TestInflightGuard_Expires(t *testing.T) {
	g := NewInflightGuard()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	assert.True(t, g.Acquire("a", time.Second))
	now = now.Add(time.Second)
	assert.False(t, g.Held("a"))
	assert.True(t, g.Acquire("a", time.Second))
}

func TestInflightGuard_SingleWinner(t *testing.T) {
	g := NewInflightGuard()
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Acquire("s", time.Minute) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins.Load())
}
