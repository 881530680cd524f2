package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dpineda/mediashelf-backend/pkg/config"
	"github.com/dpineda/mediashelf-backend/pkg/db"
	"github.com/dpineda/mediashelf-backend/pkg/logger"
	"github.com/dpineda/mediashelf-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.SourceDir, "migrations directory for create/validate (DB commands use the embedded set)")
	name := flag.String("name", "", "migration name, used by -cmd=create")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS), used by -cmd=version")
	flag.Parse()

	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	mustInit(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": *cmd})

	// create and validate work on the source tree, no database needed.
	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fail("create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	mustInit(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	mustInit(ctx, logg, "sql database", err)

	dialect := migrate.DialectFor(cfg.DB.Driver())
	ctx = logg.WithField(ctx, "dialect", dialect)

	switch *cmd {
	case "up", "down", "status":
		logg.Info(ctx, "running goose "+*cmd)
		if err := migrate.Run(ctx, sqlDB, dialect, *cmd); err != nil {
			fail("goose %s: %v", *cmd, err)
		}
	case "version":
		if *version == "" {
			fail("missing -version for version command")
		}
		logg.Info(ctx, "migrating to pinned version")
		if err := migrate.MigrateToVersion(ctx, sqlDB, dialect, *version); err != nil {
			fail("goose version migrate: %v", err)
		}
	default:
		fail("unknown -cmd value: %s", *cmd)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func mustInit(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, resource+" unavailable", err)
	os.Exit(1)
}
