package daemon

import (
	"context"
	"testing"

	"subvault/internal/config"
	"subvault/internal/logging"
	"subvault/internal/testsupport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t)
}

func TestDaemonStartStop(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !d.Status(ctx).Running {
		t.Error("status should report running")
	}
	if err := d.Start(ctx); err == nil {
		t.Error("second start on the same daemon should fail")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Error("status should report stopped")
	}
	// Stop is idempotent.
	d.Stop()
}

func TestDaemonSingleInstanceLock(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new first daemon: %v", err)
	}
	defer first.Close()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("start first: %v", err)
	}

	second, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new second daemon: %v", err)
	}
	defer second.Close()
	if err := second.Start(ctx); err == nil {
		t.Fatal("second instance acquired the lock")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("start after lock release: %v", err)
	}
	second.Stop()
}

func TestNewRequiresConfigAndLogger(t *testing.T) {
	if _, err := New(nil, logging.NewNop()); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := New(testConfig(t), nil); err == nil {
		t.Error("expected error for nil logger")
	}
}
