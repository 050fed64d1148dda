package commands

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
)

func TestOrderGateSerializesSameOrder(t *testing.T) {
	gate := newOrderGate()
	id := kernel.NewUUID()

	release := gate.acquire(id)

	acquired := make(chan struct{})
	go func() {
		secondRelease := gate.acquire(id)
		close(acquired)
		secondRelease()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire succeeded while the gate was held")
	case <-time.After(20 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire never proceeded after release")
	}
}

func TestOrderGateDistinctOrdersProceedIndependently(t *testing.T) {
	gate := newOrderGate()

	releaseA := gate.acquire(kernel.NewUUID())
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := gate.acquire(kernel.NewUUID())
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("distinct orders must not contend")
	}
}

func TestOrderGateReleaseDropsEntry(t *testing.T) {
	gate := newOrderGate()

	release := gate.acquire(kernel.NewUUID())
	release()

	gate.mu.Lock()
	defer gate.mu.Unlock()
	assert.Empty(t, gate.locks)
}
