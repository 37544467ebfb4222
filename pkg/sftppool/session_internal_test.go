package sftppool

import (
	"errors"
	"testing"
)

// closerFunc adapts a func to io.Closer for transport tests.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// TestTransportState_ConnectedUntilClosed tests liveness tracking.
func TestTransportState_ConnectedUntilClosed(t *testing.T) {
	t.Parallel()

	transport := newTransportState(closerFunc(func() error { return nil }))

	if !transport.Connected() {
		t.Error("transport should report connected before Close")
	}

	if err := transport.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if transport.Connected() {
		t.Error("transport should report disconnected after Close")
	}
}

// TestTransportState_Close_IsIdempotent tests that only the first Close
// reaches the underlying closer.
func TestTransportState_Close_IsIdempotent(t *testing.T) {
	t.Parallel()

	closeCalls := 0
	transport := newTransportState(closerFunc(func() error {
		closeCalls++
		return errors.New("close failed")
	}))

	if err := transport.Close(); err == nil {
		t.Error("first Close() should surface the underlying error")
	}
	if err := transport.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}

	if closeCalls != 1 {
		t.Errorf("underlying closer called %d times, want 1", closeCalls)
	}
}
