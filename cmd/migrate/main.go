package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/config"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/logger"
	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/migration"
	"github.com/anu-devcode/deploy-test-sub002/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// create and list work on a directory and never touch the database
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name>")
		}
		mf, err := migration.CreateMigration(dirOrDefault(migrationsPath), args[1])
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	case "list":
		files, err := migration.ListMigrations(dirOrDefault(migrationsPath))
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, f := range files {
			fmt.Printf("  %06d  %s\n", f.Version, f.Name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.New(db, migrationsPath, log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	log.Info("Migration CLI started", zap.String("command", command), zap.String("source", sourceName(migrationsPath)))

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}
	case "step":
		n := intArg(log, args, "step count")
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
			return
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	case "force":
		version := intArg(log, args, "version")
		log.Warn("Forcing migration version, the schema is not checked")
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func dirOrDefault(path string) string {
	if path == "" {
		return "migrations"
	}
	return path
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func intArg(log *zap.Logger, args []string, what string) int {
	if len(args) < 2 {
		log.Fatal("Missing argument", zap.String("expected", what))
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal("Invalid argument", zap.String("expected", what), zap.String("value", args[1]))
	}
	return n
}

func printUsage() {
	fmt.Println(`Shop database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (positive=up, negative=down)
  version           Show current migration version
  force <version>   Force set migration version (use with caution)
  create <name>     Create a new migration file pair
  list              List migrations in the directory

Flags:
  -path string        Migrations directory (default: embedded set; ./migrations for create/list)
  -log-level string   Log level: debug, info, warn, error (default: info)

Database settings come from config.toml or SHOP_DATABASE_* environment variables.`)
}
