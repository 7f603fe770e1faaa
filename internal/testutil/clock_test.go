package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameClock_StartsAtEpoch(t *testing.T) {
	clock := NewFrameClock()
	assert.Equal(t, Epoch, clock.Now())
	assert.Equal(t, int64(0), clock.Frames())
}

func TestFrameClock_Tick(t *testing.T) {
	clock := NewFrameClock()

	assert.Equal(t, int64(1), clock.Tick())
	assert.Equal(t, int64(2), clock.Tick())
	assert.Equal(t, Epoch.Add(2*FrameDuration), clock.Now())
}

func TestFrameClock_Advance(t *testing.T) {
	clock := NewFrameClock()
	clock.Advance(time.Second)

	assert.Equal(t, Epoch.Add(time.Second), clock.Now())
	assert.Equal(t, int64(0), clock.Frames(), "Advance does not count frames")
}

func TestFrameClock_Reset(t *testing.T) {
	clock := NewFrameClock()
	clock.Tick()
	clock.Advance(time.Minute)

	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
	assert.Equal(t, int64(0), clock.Frames())
}

func TestFrameClock_ConcurrentTicks(t *testing.T) {
	clock := NewFrameClock()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				clock.Tick()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), clock.Frames())
	assert.Equal(t, Epoch.Add(1000*FrameDuration), clock.Now())
}
