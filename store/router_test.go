package store

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func memoryOpener(t *testing.T) (Opener, *int) {
	t.Helper()

	opens := 0
	return func(dsn string) (*gorm.DB, error) {
		opens++
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, err
		}
		return db, nil
	}, &opens
}

func TestRouter_CachesHandlePerDSN(t *testing.T) {
	open, opens := memoryOpener(t)
	r := NewRouter("default.db", open)

	first, err := r.Get("tenant-a.db")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := r.Get("tenant-a.db")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if first != second {
		t.Error("Get() returned distinct handles for the same DSN")
	}
	if *opens != 1 {
		t.Errorf("opener called %d times for one DSN, want 1", *opens)
	}

	if _, err := r.Get("tenant-b.db"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *opens != 2 {
		t.Errorf("opener called %d times for two DSNs, want 2", *opens)
	}
	if r.Open() != 2 {
		t.Errorf("Open() = %d, want 2", r.Open())
	}
}

func TestRouter_EmptyDSNUsesDefault(t *testing.T) {
	open, opens := memoryOpener(t)
	r := NewRouter("default.db", open)

	viaEmpty, err := r.Get("")
	if err != nil {
		t.Fatalf("Get(\"\") error = %v", err)
	}
	viaDefault, err := r.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	if viaEmpty != viaDefault {
		t.Error("empty DSN and default resolved to distinct handles")
	}
	if *opens != 1 {
		t.Errorf("opener called %d times, want 1", *opens)
	}
}

func TestRouter_FailedOpenNotCached(t *testing.T) {
	calls := 0
	failOnce := func(dsn string) (*gorm.DB, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		return gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	}
	r := NewRouter("default.db", failOnce)

	if _, err := r.Get("flaky.db"); err == nil {
		t.Fatal("Get() expected error on first open")
	}
	if r.Open() != 0 {
		t.Errorf("Open() = %d after failed open, want 0", r.Open())
	}

	// Retry succeeds; the failure did not poison the cache.
	if _, err := r.Get("flaky.db"); err != nil {
		t.Fatalf("Get() retry error = %v", err)
	}
	if r.Open() != 1 {
		t.Errorf("Open() = %d after retry, want 1", r.Open())
	}
}

func TestRouter_Close(t *testing.T) {
	open, _ := memoryOpener(t)
	r := NewRouter("default.db", open)

	for i := 0; i < 3; i++ {
		if _, err := r.Get(fmt.Sprintf("tenant-%d.db", i)); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if r.Open() != 0 {
		t.Errorf("Open() = %d after Close, want 0", r.Open())
	}
}
