package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	pgprobe "forgeai/omega_gateway/internal/adapters/probe/postgres"
	redisprobe "forgeai/omega_gateway/internal/adapters/probe/redis"
	apphealth "forgeai/omega_gateway/internal/application/health"
	corehealth "forgeai/omega_gateway/internal/core/health"
	"forgeai/omega_gateway/internal/infrastructure/cache"
	"forgeai/omega_gateway/internal/infrastructure/config"
	"forgeai/omega_gateway/internal/infrastructure/database"
	"forgeai/omega_gateway/internal/infrastructure/security"
)

// HealthMetadata derives the reported message and dependency descriptions from config.
func HealthMetadata(cfg config.AppConfig) apphealth.Metadata {
	return apphealth.Metadata{
		Message:  cfg.Health.Message,
		Database: corehealth.Dependency{Name: "PostgreSQL", Address: cfg.Database.Address()},
		Cache:    corehealth.Dependency{Name: "Redis", Address: cfg.Redis.Address()},
	}
}

// HealthService wires the health reporter. With probes disabled it opens no
// connection at all. The returned cleanup closes whatever was opened.
func HealthService(ctx context.Context, cfg config.AppConfig, log *slog.Logger) (*apphealth.Service, func(), error) {
	meta := HealthMetadata(cfg)
	if !cfg.Health.ProbesEnabled {
		log.Info("Dependency probes disabled, reporting static descriptions")
		return apphealth.NewService(meta, apphealth.Options{Logger: log}), func() {}, nil
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	dbProbe, closeDB, err := databaseProbe(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeDB)

	redisClient := cache.NewRedisClient(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Health.ProbeTimeout)
	closers = append(closers, func() { _ = redisClient.Close() })

	results := cache.NewResultCache(cfg.Health.ProbeCacheTTL)

	log.Info("Dependency probes enabled",
		"database_driver", cfg.Database.Driver,
		"database", meta.Database.Address,
		"cache", meta.Cache.Address,
		"timeout", cfg.Health.ProbeTimeout.String(),
		"cache_ttl", results.TTL().String(),
	)

	service := apphealth.NewService(meta, apphealth.Options{
		Probes: apphealth.Probes{
			Database: dbProbe,
			Cache:    redisprobe.NewProbe(redisClient),
		},
		Timeout:  cfg.Health.ProbeTimeout,
		Results:  results,
		Redactor: security.NewRedactor(cfg.Database.Password, cfg.Redis.Password),
		Logger:   log,
	})
	return service, cleanup, nil
}

func databaseProbe(ctx context.Context, cfg config.AppConfig) (corehealth.Probe, func(), error) {
	dbCfg := database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.Database,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectTimeout:  cfg.Health.ProbeTimeout,
	}

	switch cfg.Database.Driver {
	case database.DriverPostgres:
		db, err := database.OpenSQL(dbCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("database probe: %w", err)
		}
		return pgprobe.NewSQLProbe(db), func() { _ = db.Close() }, nil
	default:
		pool, err := database.NewPool(ctx, dbCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("database probe: %w", err)
		}
		return pgprobe.NewPoolProbe(pool), pool.Close, nil
	}
}
