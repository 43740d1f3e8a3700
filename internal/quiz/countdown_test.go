package quiz

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdown_Expires(t *testing.T) {
	var calls atomic.Int32
	c := NewCountdown(30*time.Millisecond, 10*time.Millisecond, func() { calls.Add(1) })
	c.Start(context.Background())

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not expire")
	}

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, c.Expired())
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestCountdown_Stop(t *testing.T) {
	var calls atomic.Int32
	c := NewCountdown(time.Hour, 5*time.Millisecond, func() { calls.Add(1) })
	c.Start(context.Background())

	c.Stop()
	c.Stop()

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not stop")
	}
	assert.Zero(t, calls.Load())
	assert.False(t, c.Expired())
}

func TestCountdown_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCountdown(time.Hour, 5*time.Millisecond, nil)
	c.Start(ctx)
	cancel()

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("countdown ignored context cancellation")
	}
	assert.Greater(t, c.Remaining(), time.Duration(0))
}
