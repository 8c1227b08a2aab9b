package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/goldbook/backend/internal/infrastructure/config"
	"github.com/goldbook/backend/internal/infrastructure/logger"
	"github.com/goldbook/backend/internal/infrastructure/migration"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "internal/infrastructure/migration/sql"

// storeCommand runs against an opened store
type storeCommand struct {
	usage string
	nargs int
	run   func(m *migration.Migrator, args []string, log *zap.Logger) error
}

var storeCommands = map[string]storeCommand{
	"up": {
		usage: "up",
		run:   func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Up() },
	},
	"down": {
		usage: "down",
		run:   func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Down() },
	},
	"step": {
		usage: "step <n>",
		nargs: 1,
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return m.Steps(n)
		},
	},
	"goto": {
		usage: "goto <version>",
		nargs: 1,
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			v, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.GoTo(uint(v))
		},
	},
	"force": {
		usage: "force <version>",
		nargs: 1,
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.Force(v)
		},
	},
	"status": {
		usage: "status",
		run: func(m *migration.Migrator, _ []string, log *zap.Logger) error {
			st, err := m.Status()
			if err != nil {
				return err
			}
			log.Info("Schema status",
				zap.Uint("version", st.Version),
				zap.Uint("latest", st.Latest),
				zap.Bool("pending", st.Pending()),
				zap.Bool("dirty", st.Dirty),
			)
			return nil
		},
	},
}

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "Directory new migration files are created in")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

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
	defer logger.Sync(log)

	if err := run(args[0], args[1:], migrationsPath, log); err != nil {
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(command string, args []string, migrationsPath string, log *zap.Logger) error {
	switch command {
	case "create":
		if len(args) < 1 {
			return errors.New("usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(migrationsPath, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil

	case "list":
		names, err := migration.Embedded()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cmd, ok := storeCommands[command]
	if !ok {
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
	if len(args) < cmd.nargs {
		return fmt.Errorf("usage: migrate %s", cmd.usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	log.Info("Opening store", zap.String("command", command), zap.String("database", cfg.Database.Path))

	db, err := sql.Open("sqlite3", cfg.Database.DSN())
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("open %s: %w", cfg.Database.Path, err)
	}

	m, err := migration.New(db, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return cmd.run(m, args, log)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `goldbook schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations, negative n rolls back
  goto <version>        Move to a specific version
  status                Show applied and latest version
  force <version>       Set the version after a manual fix of a dirty store
  create <name> [desc]  Write a new empty migration pair under -path
  list                  List migrations embedded in the binary

Flags:
  -path string          Directory for new migration files (default internal/infrastructure/migration/sql)
  -log-level string     debug, info, warn or error (default info)

The store is located with GOLDBOOK_DATABASE_PATH or config.toml.
`)
}
