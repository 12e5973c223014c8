package irq

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmodel/devmodel-go/pkg/errcode"
	"github.com/devmodel/devmodel-go/pkg/log"
)

func TestTryNewDeliversContextData(t *testing.T) {
	d := NewDomain()

	var got []int
	reg, err := TryNew(d, 33, 42, TriggerRising, "sample", func(data int) Return {
		got = append(got, data)
		return Handled
	})
	require.NoError(t, err)
	defer reg.Close()

	assert.Equal(t, Handled, d.Raise(33))
	assert.Equal(t, Handled, d.Raise(33))
	assert.Equal(t, []int{42, 42}, got)
	assert.Equal(t, uint32(33), reg.IRQ())
	assert.Equal(t, "sample", reg.Name())
}

func TestTryNewRejectsInvalidArguments(t *testing.T) {
	d := NewDomain()

	_, err := TryNew[int](d, 1, 0, 0, "x", nil)
	assert.ErrorIs(t, err, errcode.ErrInvalidArgument)

	_, err = TryNew(d, 1, 0, 0, "", func(int) Return { return None })
	assert.ErrorIs(t, err, errcode.ErrInvalidArgument)
}

func TestExclusiveLineIsBusy(t *testing.T) {
	d := NewDomain()
	h := func(int) Return { return Handled }

	first, err := TryNew(d, 5, 0, 0, "first", h)
	require.NoError(t, err)
	defer first.Close()

	_, err = TryNew(d, 5, 0, Shared, "second", h)
	assert.ErrorIs(t, err, errcode.ErrBusy)
}

func TestSharedLineCombinesResults(t *testing.T) {
	d := NewDomain()

	a, err := TryNew(d, 7, "a", Shared, "a", func(string) Return { return None })
	require.NoError(t, err)
	defer a.Close()
	b, err := TryNew(d, 7, "b", Shared, "b", func(string) Return { return Handled | WakeThread })
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, Handled|WakeThread, d.Raise(7))

	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, []string{"a", "b"}, lines[0].Actions)
	assert.Equal(t, uint64(1), lines[0].Count)
}

func TestCloseStopsDelivery(t *testing.T) {
	d := NewDomain()

	calls := 0
	reg, err := TryNew(d, 9, 0, 0, "once", func(int) Return {
		calls++
		return Handled
	})
	require.NoError(t, err)

	d.Raise(9)
	require.NoError(t, reg.Close())
	require.NoError(t, reg.Close())

	assert.Equal(t, None, d.Raise(9))
	assert.Equal(t, 1, calls)
	assert.Empty(t, d.Lines())
}

func TestCloseWaitsForRunningHandler(t *testing.T) {
	d := NewDomain()

	entered := make(chan struct{})
	release := make(chan struct{})
	reg, err := TryNew(d, 11, 0, 0, "slow", func(int) Return {
		close(entered)
		<-release
		return Handled
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Raise(11)
	}()
	<-entered

	closed := make(chan struct{})
	go func() {
		_ = reg.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while handler was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	<-closed
}

func TestCloseDoesNotBlockOtherLines(t *testing.T) {
	d := NewDomain()

	entered := make(chan struct{})
	release := make(chan struct{})
	slow, err := TryNew(d, 5, 0, 0, "slow", func(int) Return {
		close(entered)
		<-release
		return Handled
	})
	require.NoError(t, err)
	_, err = TryNew(d, 7, 0, 0, "fast", func(int) Return { return Handled })
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Raise(5)
	}()
	<-entered

	closed := make(chan struct{})
	go func() {
		_ = slow.Close()
		close(closed)
	}()
	require.Eventually(t, func() bool {
		for _, li := range d.Lines() {
			if li.IRQ == 5 {
				return false
			}
		}
		return true
	}, 2*time.Second, time.Millisecond, "line 5 still listed while Close waits")

	done := make(chan Return)
	go func() {
		done <- d.Raise(7)
		_, err := d.Request(9, 0, "late", func() Return { return Handled })
		assert.NoError(t, err)
		assert.Len(t, d.Lines(), 2)
		close(done)
	}()

	select {
	case ret := <-done:
		assert.Equal(t, Handled, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("Raise(7) blocked behind Close of line 5")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Request or Lines blocked behind Close of line 5")
	}

	assert.Equal(t, None, d.Raise(5), "freed action must not run again")
	close(release)
	wg.Wait()
	<-closed
}

func TestFreeWaitsAcrossSharedRequest(t *testing.T) {
	d := NewDomain()

	entered := make(chan struct{})
	release := make(chan struct{})
	slow, err := d.Request(6, Shared, "slow", func() Return {
		close(entered)
		<-release
		return Handled
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Raise(6)
	}()
	<-entered

	_, err = d.Request(6, Shared, "second", func() Return { return None })
	require.NoError(t, err)

	freed := make(chan struct{})
	go func() {
		d.Free(6, slow)
		close(freed)
	}()

	select {
	case <-freed:
		t.Fatal("Free returned while handler from an earlier snapshot was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	<-freed
	require.Len(t, d.Lines(), 1)
	assert.Equal(t, []string{"second"}, d.Lines()[0].Actions)
}

func TestHandlerMayQueryDomain(t *testing.T) {
	d := NewDomain()

	var seen []LineInfo
	_, err := d.Request(3, 0, "query", func() Return {
		seen = d.Lines()
		return Handled
	})
	require.NoError(t, err)

	assert.Equal(t, Handled, d.Raise(3))
	require.Len(t, seen, 1)
	assert.Equal(t, uint32(3), seen[0].IRQ)
}

func TestRequestErrorIsWrapped(t *testing.T) {
	d := NewDomain()
	_, err := d.Request(1, 0, "nil", nil)
	assert.True(t, errors.Is(err, errcode.ErrInvalidArgument))
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "0", Flags(0).String())
	assert.Equal(t, "TRIGGER_RISING|SHARED", (TriggerRising | Shared).String())
	assert.True(t, (Shared | PerCPU).Has(PerCPU))
	assert.False(t, Shared.Has(Shared|PerCPU))
}

func TestDomainTracesRequestAndFree(t *testing.T) {
	d := NewDomain()
	mem := &log.MemoryLogger{}
	d.SetTrace(mem)

	reg, err := TryNew(d, 12, 0, Shared, "uart", func(int) Return { return Handled })
	require.NoError(t, err)
	reg.Close()

	events := mem.Events()
	require.Len(t, events, 2)
	assert.Equal(t, log.IRQRequested, events[0].IRQ.Action)
	assert.Equal(t, "SHARED", events[0].IRQ.Flags)
	assert.Equal(t, log.IRQFreed, events[1].IRQ.Action)
	assert.Equal(t, uint32(12), events[1].IRQ.IRQ)
	assert.Equal(t, "uart", events[1].IRQ.Name)
}
