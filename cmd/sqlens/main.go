// Command sqlens serves read-only schema introspection for a SQLite
// database over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sqlens/sqlens/internal/config"
	"github.com/sqlens/sqlens/internal/database"
	"github.com/sqlens/sqlens/internal/database/sqlite"
	"github.com/sqlens/sqlens/internal/filestore"
	"github.com/sqlens/sqlens/internal/filestore/minio"
	"github.com/sqlens/sqlens/internal/logger"
	"github.com/sqlens/sqlens/internal/schema"
	"github.com/sqlens/sqlens/internal/server"
	"github.com/sqlens/sqlens/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "sqlens.yaml", "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "sqlens: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg := database.DefaultConfig(cfg.Database.Path)
	if cfg.Database.ReadOnly != nil {
		dbCfg.ReadOnly = *cfg.Database.ReadOnly
	}
	if cfg.Database.BusyTimeout > 0 {
		dbCfg.BusyTimeout = cfg.Database.BusyTimeout.Std()
	}

	db, err := sqlite.New(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}
	defer db.Close()

	catalog := schema.NewIntrospector(db)

	version, err := catalog.DatabaseVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading database version: %w", err)
	}

	log.With().
		Str("database", cfg.DatabaseName()).
		Str("driver", sqlite.DriverType()).
		Str("sqlite_version", version).
		Bool("read_only", dbCfg.ReadOnly).
		Logger().
		Info("database opened")

	var exporter *snapshot.Exporter
	if cfg.Snapshot.Enabled() {
		store, err := minio.New(ctx, &filestore.Config{
			Provider:  filestore.ProviderMinIO,
			Endpoint:  cfg.Snapshot.Endpoint,
			AccessKey: cfg.Snapshot.AccessKey,
			SecretKey: cfg.Snapshot.SecretKey,
			UseSSL:    cfg.Snapshot.UseSSL,
			Region:    cfg.Snapshot.Region,
			Bucket:    cfg.Snapshot.Bucket,
		})
		if err != nil {
			return fmt.Errorf("connecting snapshot store: %w", err)
		}
		defer store.Close()
		exporter = snapshot.New(catalog, store, cfg.Snapshot.Bucket, cfg.DatabaseName(), log)
		log.With().Str("endpoint", cfg.Snapshot.Endpoint).Logger().Info("snapshot store connected")
	}

	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout.Std(),
		WriteTimeout:    cfg.Server.WriteTimeout.Std(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
		QueryTimeout:    cfg.Database.QueryTimeout.Std(),
	}, db, catalog, exporter, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
