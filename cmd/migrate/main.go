package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	appmigrations "github.com/wolfman30/primer-realty/migrations"
)

const usage = "usage: migrate [up | down <steps> | force <version> | version]"

func main() {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	cmd, err := parseCommand(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatalf("db driver: %v", err)
	}
	srcDriver, err := iofs.New(appmigrations.FS, ".")
	if err != nil {
		log.Fatalf("source driver: %v", err)
	}
	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	msg, err := cmd.run(m)
	if err != nil {
		log.Fatalf("%s: %v", cmd.name, err)
	}
	fmt.Println(msg)
}

type command struct {
	name string
	n    int
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{name: "up"}, nil
	}
	switch args[0] {
	case "up", "version":
		return command{name: args[0]}, nil
	case "down", "force":
		if len(args) < 2 {
			return command{}, errors.New(usage)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return command{}, fmt.Errorf("invalid number %q: %w", args[1], err)
		}
		if args[0] == "down" && n <= 0 {
			return command{}, fmt.Errorf("down needs a positive step count")
		}
		return command{name: args[0], n: n}, nil
	}
	return command{}, errors.New(usage)
}

func (c command) run(m *migrate.Migrate) (string, error) {
	switch c.name {
	case "down":
		if err := m.Steps(-c.n); err != nil {
			return "", err
		}
		return fmt.Sprintf("rolled back %d migration(s)", c.n), nil
	case "force":
		if err := m.Force(c.n); err != nil {
			return "", err
		}
		return fmt.Sprintf("forced version to %d", c.n), nil
	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return "no migrations applied", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("version %d (dirty=%t)", v, dirty), nil
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return "", err
	}
	return "migrations complete", nil
}
