package app_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/watchsync/server/internal/app"
)

const debounce = 30 * time.Millisecond

func TestTyping_AutoStopFiresAfterWindow(t *testing.T) {
	m := app.NewTypingManager(debounce)
	var fired atomic.Int32

	m.Start("conn-a", func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		10*debounce, time.Millisecond)
	// And only once.
	time.Sleep(2 * debounce)
	assert.EqualValues(t, 1, fired.Load())
}

func TestTyping_ManualStopCancelsAutoStop(t *testing.T) {
	m := app.NewTypingManager(debounce)
	var fired atomic.Int32

	m.Start("conn-a", func() { fired.Add(1) })
	assert.True(t, m.Stop("conn-a"))

	time.Sleep(3 * debounce)
	assert.Zero(t, fired.Load())

	// Nothing pending anymore.
	assert.False(t, m.Stop("conn-a"))
}

func TestTyping_RestartSupersedesPendingTimer(t *testing.T) {
	m := app.NewTypingManager(debounce)
	var first, second atomic.Int32

	m.Start("conn-a", func() { first.Add(1) })
	m.Start("conn-a", func() { second.Add(1) })

	assert.Eventually(t, func() bool { return second.Load() == 1 },
		10*debounce, time.Millisecond)
	assert.Zero(t, first.Load(), "superseded timer must not fire")
}

func TestTyping_RestartExtendsWindow(t *testing.T) {
	m := app.NewTypingManager(debounce)
	var fired atomic.Int32

	m.Start("conn-a", func() { fired.Add(1) })
	time.Sleep(debounce / 2)
	m.Start("conn-a", func() { fired.Add(1) })
	time.Sleep(debounce * 3 / 4)
	// First window has elapsed in total, second has not.
	assert.Zero(t, fired.Load())

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		10*debounce, time.Millisecond)
}

func TestTyping_DropDiscardsWithoutFiring(t *testing.T) {
	m := app.NewTypingManager(debounce)
	var fired atomic.Int32

	m.Start("conn-a", func() { fired.Add(1) })
	m.Drop("conn-a")

	time.Sleep(3 * debounce)
	assert.Zero(t, fired.Load())
}

func TestTyping_ConnectionsAreIndependent(t *testing.T) {
	m := app.NewTypingManager(debounce)
	var a, b atomic.Int32

	m.Start("conn-a", func() { a.Add(1) })
	m.Start("conn-b", func() { b.Add(1) })
	m.Stop("conn-a")

	assert.Eventually(t, func() bool { return b.Load() == 1 },
		10*debounce, time.Millisecond)
	assert.Zero(t, a.Load())
}
