package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFires(t *testing.T) {
	s := New()
	var fired atomic.Int32

	s.Schedule("msg_1", 10*time.Millisecond, func() { fired.Add(1) })

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, s.Pending("msg_1"), "fired task must leave the slot")
}

func TestCancelPreventsFire(t *testing.T) {
	s := New()
	var fired atomic.Int32

	s.Schedule("msg_1", 30*time.Millisecond, func() { fired.Add(1) })
	s.Schedule("msg_1", 30*time.Millisecond, func() { fired.Add(1) })
	assert.Equal(t, 2, s.Pending("msg_1"))

	s.Cancel("msg_1")
	assert.Zero(t, s.Pending("msg_1"))

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestCancelIsScopedToKey(t *testing.T) {
	s := New()
	var fired atomic.Int32

	s.Schedule("msg_1", 20*time.Millisecond, func() { fired.Add(1) })
	s.Schedule("msg_2", 20*time.Millisecond, func() { fired.Add(1) })

	s.Cancel("msg_1")

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestCancelAll(t *testing.T) {
	s := New()
	var fired atomic.Int32

	s.Schedule("msg_1", 20*time.Millisecond, func() { fired.Add(1) })
	s.Schedule("typing:conv_1", 20*time.Millisecond, func() { fired.Add(1) })

	s.CancelAll()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fired.Load())
	assert.Zero(t, s.Pending("msg_1"))
	assert.Zero(t, s.Pending("typing:conv_1"))
}
