// Package store routes requests to per-tenant database handles. A tenant's
// storage endpoint is a DSN; tenants without a dedicated endpoint share the
// default one. At most one live handle exists per distinct endpoint.
package store

import (
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Opener opens a database handle for a DSN. It is injectable so tests can
// substitute in-memory stores.
type Opener func(dsn string) (*gorm.DB, error)

// SQLiteOpener returns an Opener backed by SQLite that auto-migrates the
// given models on every newly opened handle.
func SQLiteOpener(models ...any) Opener {
	return func(dsn string) (*gorm.DB, error) {
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open store %q: %w", dsn, err)
		}
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate store %q: %w", dsn, err)
		}
		return db, nil
	}
}

// Router caches database handles keyed by DSN. Handles are created lazily
// on first use and kept for the process lifetime; a failed open is not
// cached, so the next request retries the connection.
type Router struct {
	defaultDSN string
	open       Opener
	mu         sync.Mutex
	handles    map[string]*gorm.DB
}

// NewRouter creates a Router. defaultDSN is used for tenants with no
// dedicated storage endpoint.
func NewRouter(defaultDSN string, open Opener) *Router {
	return &Router{
		defaultDSN: defaultDSN,
		open:       open,
		handles:    make(map[string]*gorm.DB),
	}
}

// Get returns the cached handle for a DSN, opening it on first use.
// An empty DSN resolves to the default endpoint.
func (r *Router) Get(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = r.defaultDSN
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.handles[dsn]; ok {
		return db, nil
	}

	db, err := r.open(dsn)
	if err != nil {
		return nil, err
	}
	r.handles[dsn] = db
	return db, nil
}

// Default returns the handle for the shared default endpoint.
func (r *Router) Default() (*gorm.DB, error) {
	return r.Get(r.defaultDSN)
}

// Open reports how many distinct endpoints currently have a live handle.
func (r *Router) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Close closes every cached handle. Used on shutdown.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for dsn, db := range r.handles {
		sqlDB, err := db.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.handles, dsn)
	}
	return firstErr
}
