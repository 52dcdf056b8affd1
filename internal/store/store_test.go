package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("HK_HOME", filepath.Join(t.TempDir(), "hk"))
	s, err := New("")
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	t.Run("HK_HOME wins", func(t *testing.T) {
		t.Setenv("HK_HOME", "/tmp/custom-hk")
		s, err := New("/tmp/override")
		if err != nil {
			t.Fatalf("New() = %v", err)
		}
		if s.Path() != "/tmp/custom-hk" {
			t.Errorf("Path() = %q, want /tmp/custom-hk", s.Path())
		}
	})

	t.Run("override beats user cache dir", func(t *testing.T) {
		t.Setenv("HK_HOME", "")
		os.Unsetenv("HK_HOME")
		s, err := New("/tmp/override")
		if err != nil {
			t.Fatalf("New() = %v", err)
		}
		if s.Path() != "/tmp/override" {
			t.Errorf("Path() = %q, want /tmp/override", s.Path())
		}
	})
}

func TestInit(t *testing.T) {
	s := newTestStore(t)

	if err := s.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}

	for _, dir := range []string{s.Path(), s.PatchDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("Init() should create directory %s", dir)
		}
	}
	if _, err := os.Stat(filepath.Join(s.Path(), "README")); err != nil {
		t.Error("Init() should write a README marker")
	}

	// Idempotent.
	if err := s.Init(); err != nil {
		t.Errorf("second Init() = %v", err)
	}
}

func TestToolsDir(t *testing.T) {
	s := newTestStore(t)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}

	dir, err := s.ToolsDir("node")
	if err != nil {
		t.Fatalf("ToolsDir() = %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("ToolsDir() should create %s", dir)
	}
}

func TestLock(t *testing.T) {
	s := newTestStore(t)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	ctx := context.Background()

	release, err := s.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock() = %v", err)
	}

	// A second acquisition must block until release.
	blocked, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := s.Lock(blocked); err == nil {
		t.Error("second Lock() should time out while held")
	}

	release()

	release2, err := s.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock() after release = %v", err)
	}
	release2()
}
