package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/commerce-backend/modules/tenant"
	"github.com/example/commerce-backend/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"
)

// FinanceModule computes profit-and-loss reports over tenant order and
// ledger data. Computed snapshots are cached in Redis when available;
// without Redis the module still serves reports, just uncached.
type FinanceModule struct {
	router    *store.Router
	tenants   tenant.TenantPort
	redisAddr string
	client    *redis.Client
	cache     *SnapshotCache
}

// Compile-time interface checks.
var _ mono.Module = (*FinanceModule)(nil)
var _ mono.ServiceProviderModule = (*FinanceModule)(nil)
var _ mono.DependentModule = (*FinanceModule)(nil)
var _ mono.HealthCheckableModule = (*FinanceModule)(nil)

// NewModule creates a new FinanceModule using the shared store router.
// Redis address comes from REDIS_ADDR; empty disables the snapshot cache.
func NewModule(router *store.Router) *FinanceModule {
	return &FinanceModule{
		router:    router,
		redisAddr: os.Getenv("REDIS_ADDR"),
	}
}

// NewModuleWithCache creates a FinanceModule against a specific Redis
// address. Used by tests.
func NewModuleWithCache(router *store.Router, redisAddr string) *FinanceModule {
	return &FinanceModule{router: router, redisAddr: redisAddr}
}

// Name returns the module name.
func (m *FinanceModule) Name() string {
	return "finance"
}

// Dependencies returns the list of module dependencies.
func (m *FinanceModule) Dependencies() []string {
	return []string{"tenant"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *FinanceModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "tenant" {
		m.tenants = tenant.NewTenantAdapter(container)
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *FinanceModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "report", json.Unmarshal, json.Marshal, m.computeReport,
	); err != nil {
		return fmt.Errorf("failed to register report service: %w", err)
	}

	log.Printf("[finance] Registered services: services.finance.report")
	return nil
}

// Start verifies dependencies and connects the snapshot cache. An
// unreachable Redis degrades to uncached reports instead of failing
// startup.
func (m *FinanceModule) Start(ctx context.Context) error {
	if m.tenants == nil {
		return fmt.Errorf("tenant dependency not set")
	}

	if m.redisAddr != "" {
		m.client = redis.NewClient(&redis.Options{
			Addr:         m.redisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err := m.client.Ping(ctx).Err(); err != nil {
			log.Printf("[finance] Warning: Redis at %s unreachable, reports will not be cached: %v", m.redisAddr, err)
			_ = m.client.Close()
			m.client = nil
		} else {
			m.cache = NewSnapshotCache(m.client)
			log.Printf("[finance] Report snapshot cache connected to Redis at %s (TTL: %s)", m.redisAddr, snapshotTTL)
		}
	}

	log.Println("[finance] Module started (depends on: tenant)")
	return nil
}

// Stop closes the Redis connection if one was opened.
func (m *FinanceModule) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			log.Printf("[finance] Error closing Redis connection: %v", err)
		}
	}
	log.Println("[finance] Module stopped")
	return nil
}

// Health reports module health. The cache is optional, so an absent
// cache is healthy; a present but failing one is not.
func (m *FinanceModule) Health(ctx context.Context) mono.HealthStatus {
	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("report cache unreachable: %v", err),
			}
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"cache_enabled": m.cache != nil,
		},
	}
}
