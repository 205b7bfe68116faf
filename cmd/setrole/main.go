// Command setrole grants or revokes the admin role directly in the store. It is how the
// first admin is created.
//
//	setrole -email alice@example.com -role admin
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/audit"
	"github.com/spec-kit/offer-service/internal/config"
	"github.com/spec-kit/offer-service/internal/domain"
	"github.com/spec-kit/offer-service/internal/events"
	"github.com/spec-kit/offer-service/internal/observability"
	"github.com/spec-kit/offer-service/internal/persistence"
	"github.com/spec-kit/offer-service/internal/repository"
	"github.com/spec-kit/offer-service/internal/service"
)

func main() {
	email := flag.String("email", "", "email of the account to change")
	role := flag.String("role", string(domain.RoleAdmin), "role to assign: user or admin")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: setrole -email <email> [-role admin|user]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Postgres.DSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	repos := repository.NewPostgresRepositories(pg.PoolHandle())
	dispatcher := events.NewInMemoryDispatcher()
	audit.NewRecorder(repos.AuditLogs, logger, nil).Subscribe(dispatcher)

	users := service.NewUserService(repos.Users, dispatcher, logger)
	user, err := users.SetRoleByEmail(ctx, *email, domain.Role(*role))
	if err != nil {
		logger.Fatal("set role failed", zap.String("email", *email), zap.Error(err))
	}
	fmt.Printf("%s (%s) now has role %s\n", user.Email, user.ID, user.Role)
}
