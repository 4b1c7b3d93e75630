package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vendorbill/backend/internal/infrastructure/config"
	"github.com/vendorbill/backend/internal/infrastructure/logger"
	"github.com/vendorbill/backend/internal/infrastructure/migration"
)

const usage = `Usage: migrate [flags] <command> [args]

Commands:
  up               Apply all pending migrations
  down             Roll back all migrations
  step <n>         Apply n migrations (negative rolls back)
  goto <version>   Migrate to a specific version
  version          Print the current migration version
  force <version>  Set the version without running migrations
  create <name>    Create a new migration file pair
  list             List available migrations

Flags:
  -path string     Migrations directory (default "migrations")
  -log-level string  Log level (default "info")
`

func main() {
	var (
		path     = flag.String("path", "migrations", "migrations directory")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := logger.New(logger.Config{Level: *logLevel, Format: "console", Output: "stdout"})
	defer log.Sync()

	if err := run(args, *path, log); err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

func run(args []string, path string, log *zap.Logger) error {
	command := args[0]

	// create and list work without a database connection
	switch command {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("create requires a migration name")
		}
		mf, err := migration.CreateMigration(path, args[1], args[1])
		if err != nil {
			return err
		}
		log.Info("Created migration",
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath),
		)
		return nil
	case "list":
		names, err := migration.ListMigrations(path)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	m, err := migration.New(db, path, log)
	if err != nil {
		db.Close()
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		if len(args) < 2 {
			return fmt.Errorf("step requires a count")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[1], err)
		}
		return m.Steps(n)
	case "goto":
		if len(args) < 2 {
			return fmt.Errorf("goto requires a version")
		}
		v, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return m.GoTo(uint(v))
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return m.Force(v)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version: %d dirty: %v\n", v, dirty)
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
