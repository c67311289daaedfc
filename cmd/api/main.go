package main

import (
	"context"
	"log"

	"github.com/ledgerly-app/ledgerly-backend/config"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/token"
	"github.com/ledgerly-app/ledgerly-backend/internal/bootstrap"
	"github.com/ledgerly-app/ledgerly-backend/internal/maintenance"
	cronjob "github.com/ledgerly-app/ledgerly-backend/internal/maintenance/cron"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Fail closed: a missing JWT_SECRET must never fall back to a
		// guessable default.
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	if err := bootstrap.Migrate(cfg.DSN()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.DSN()})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	issuer := token.NewIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "ledgerly-backend",
		Version:     cfg.App.Version,
		CORSOrigin:  cfg.Server.CORSOrigin,
		Production:  cfg.IsProduction(),
		Issuer:      issuer,
		DB:          db,
		Redis:       rdb,
	})

	cronjob.NewScheduler(maintenance.NewPurger(db)).Start()

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
