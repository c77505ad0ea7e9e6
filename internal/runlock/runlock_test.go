package runlock

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquire_SecondHolderRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	release, err := Acquire(path)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer release()

	_, err = Acquire(path)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Acquire error = %v, want ErrAlreadyRunning", err)
	}
}

func TestAcquire_ReleaseAllowsReacquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	release, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	release, err = Acquire(path)
	if err != nil {
		t.Fatalf("re-Acquire after release: %v", err)
	}
	if err := release(); err != nil {
		t.Fatalf("second release: %v", err)
	}
}

func TestAcquire_BadDirectory(t *testing.T) {
	_, err := Acquire(filepath.Join(t.TempDir(), "missing", "run.lock"))
	if err == nil {
		t.Fatal("expected error for lock in a missing directory")
	}
	if errors.Is(err, ErrAlreadyRunning) {
		t.Fatal("missing directory must not be reported as already running")
	}
}
