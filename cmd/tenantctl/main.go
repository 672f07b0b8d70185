// Command tenantctl performs operator actions on tenants that the public
// API does not expose: suspending and reactivating a tenant.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	identityapp "github.com/anu-devcode/deploy-test-sub002/internal/application/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/config"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/logger"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	var (
		tenantID string
		code     string
	)
	flag.StringVar(&tenantID, "id", "", "Tenant id")
	flag.StringVar(&code, "code", "", "Tenant code (alternative to -id)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 || (tenantID == "" && code == "") {
		fmt.Println(`Usage:
  tenantctl (-id <uuid> | -code <code>) <show|suspend|activate>`)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	db, err := persistence.NewDatabase(&cfg.Database, log, "warn")
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := persistence.NewGormTenantRepository(db.DB)
	id, err := resolveTenant(ctx, repo, tenantID, code)
	if err != nil {
		log.Fatal("Tenant not resolved", zap.Error(err))
	}

	svc := identityapp.NewTenantService(repo, log)
	var tenant *identityapp.TenantDTO
	switch args[0] {
	case "show":
		tenant, err = svc.GetCurrent(ctx, id)
	case "suspend":
		tenant, err = svc.Suspend(ctx, id)
	case "activate":
		tenant, err = svc.Activate(ctx, id)
	default:
		log.Fatal("Unknown command", zap.String("command", args[0]))
	}
	if err != nil {
		log.Fatal("Command failed", zap.String("command", args[0]), zap.Error(err))
	}
	fmt.Printf("%s\t%s\t%s\t%s\n", tenant.ID, tenant.Code, tenant.Name, tenant.Status)
}

func resolveTenant(ctx context.Context, repo identity.TenantRepository, id, code string) (uuid.UUID, error) {
	if id != "" {
		return uuid.Parse(id)
	}
	tenant, err := repo.FindByCode(ctx, code)
	if err != nil {
		return uuid.Nil, fmt.Errorf("tenant %q: %w", code, err)
	}
	return tenant.ID, nil
}
