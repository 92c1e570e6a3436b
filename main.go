package main

import (
	"context"
	"log"
	"os"
	"time"

	domainorder "github.com/example/commerce-backend/domain/order"
	domainproduct "github.com/example/commerce-backend/domain/product"
	domaintenant "github.com/example/commerce-backend/domain/tenant"
	domainuser "github.com/example/commerce-backend/domain/user"
	"github.com/example/commerce-backend/modules/api"
	"github.com/example/commerce-backend/modules/audit"
	"github.com/example/commerce-backend/modules/auth"
	"github.com/example/commerce-backend/modules/finance"
	"github.com/example/commerce-backend/modules/inventory"
	"github.com/example/commerce-backend/modules/order"
	"github.com/example/commerce-backend/modules/shipping"
	"github.com/example/commerce-backend/modules/tenant"
	"github.com/example/commerce-backend/store"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Multi-Tenant Commerce Backend ===")

	defaultDSN := getEnv("DEFAULT_STORE_DSN", "data/default.db")

	// One router process-wide. Every tenant-scoped module resolves its
	// store handle through it, so a tenant's endpoint is opened at most
	// once.
	router := store.NewRouter(defaultDSN, store.SQLiteOpener(
		&domaintenant.Tenant{},
		&domaintenant.DomainAlias{},
		&domainuser.User{},
		&domainproduct.Product{},
		&domainproduct.StockBatch{},
		&domainorder.Order{},
		&domainorder.Item{},
		&domainorder.LogEntry{},
	))

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Order: independent modules first, then modules with dependencies.
	app.Register(tenant.NewModule(router))
	app.Register(auth.NewModule(router))
	app.Register(shipping.NewModule())
	app.Register(audit.NewModule())
	app.Register(inventory.NewModule(router))
	app.Register(order.NewModule(router))
	app.Register(finance.NewModule(router))
	app.Register(api.NewModule())

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
			"store-router": func(_ context.Context) error {
				return router.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("  POST   /api/v1/auth/login             - Login")
	log.Println("  POST   /api/v1/auth/users             - Create user (admin)")
	log.Println("  GET    /api/v1/tenants                - List tenants (admin)")
	log.Println("  POST   /api/v1/tenants                - Create/update tenant (admin)")
	log.Println("  DELETE /api/v1/tenants/:id            - Deactivate tenant (admin)")
	log.Println("  GET    /api/v1/audit/trail            - Order lifecycle audit trail (admin)")
	log.Println("  GET    /api/v1/tenant                 - Resolved tenant for this request")
	log.Println("  GET    /api/v1/products               - List products")
	log.Println("  POST   /api/v1/products               - Create/update product")
	log.Println("  POST   /api/v1/products/:id/batches   - Receive stock batch")
	log.Println("  GET    /api/v1/orders                 - List orders (filters + pagination)")
	log.Println("  POST   /api/v1/orders                 - Create/update order")
	log.Println("  POST   /api/v1/orders/bulk            - Bulk upsert orders")
	log.Println("  POST   /api/v1/orders/:id/confirm     - Confirm (FIFO stock deduction)")
	log.Println("  POST   /api/v1/orders/:id/ship        - Hand to courier")
	log.Println("  POST   /api/v1/orders/:id/deliver     - Mark delivered")
	log.Println("  POST   /api/v1/orders/:id/transition  - Manual status move")
	log.Println("  POST   /api/v1/orders/returns/scan    - Scan a returned parcel")
	log.Println("  GET    /api/v1/orders/customer-history - Orders/returns by phone")
	log.Println("  POST   /api/v1/finance/report         - P&L report")
	log.Println("  GET    /health                        - Health check")
	log.Println("")
	log.Println("Environment: DEFAULT_STORE_DSN, API_PORT, JWT_SECRET, JWT_TTL, COURIER_BASE_URL, REDIS_ADDR")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
