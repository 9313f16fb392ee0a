package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/coronelbarros/storefront/pkg/config"
	"github.com/coronelbarros/storefront/pkg/db"
	"github.com/coronelbarros/storefront/pkg/logger"
	"github.com/coronelbarros/storefront/pkg/migrate"
)

const usage = `usage: migrate [flags] <command>

commands:
  up        apply every pending migration
  down      roll back the latest migration
  redo      roll back and re-apply the latest migration
  status    print applied and pending migrations
  to        move to -version, up or down
  create    scaffold -name under -dir
  validate  lint the .sql files under -dir
`

var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "migrate:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, usage, "\nflags:\n")
		fs.PrintDefaults()
	}
	dir := fs.String("dir", migrate.DefaultDir, "migrations directory on disk (create, validate)")
	name := fs.String("name", "", "migration name (create)")
	version := fs.String("version", "", "target version YYYYMMDDHHMMSS (to)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	command := fs.Arg(0)

	switch command {
	case "create":
		if *name == "" {
			return fmt.Errorf("create needs -name")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "created", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations ok")
		return nil
	case "up", "down", "redo", "status":
	case "to":
		if *version == "" {
			return fmt.Errorf("to needs -version")
		}
	default:
		fs.Usage()
		return errUsage
	}

	return runAgainstDatabase(ctx, command, *version)
}

func runAgainstDatabase(ctx context.Context, command, version string) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	sqlDB, err := client.SQL()
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"command": command,
		"dialect": client.Dialect(),
	})
	logg.Info(ctx, "migrate.start")

	if command == "to" {
		err = migrate.MigrateToVersion(ctx, sqlDB, client.Dialect(), version)
	} else {
		err = migrate.Run(ctx, sqlDB, client.Dialect(), command)
	}
	if err != nil {
		logg.Error(ctx, "migrate.failed", err)
		return err
	}
	logg.Info(ctx, "migrate.done")
	return nil
}
