package lock

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin", ".tdbuild.lock")

	release, err := Acquire(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	release, err = Acquire(context.Background(), path, false)
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	_ = release()
}

func TestAcquireBusy(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tdbuild.lock")

	release, err := Acquire(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release()

	if _, err := Acquire(context.Background(), path, false); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestAcquireWaitHonoursContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tdbuild.lock")

	release, err := Acquire(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if _, err := Acquire(ctx, path, true); err == nil {
		t.Fatalf("expected wait to give up when the context expires")
	}
}
