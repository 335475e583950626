package data

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DataFileName string = "data.db"

	schemaVersion = 1

	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")
)

// Init creates the schema when missing and seeds the reference data into an
// empty database. Safe to call on every start.
func Init(dsn string) error {
	if dsn == "" {
		return errors.New("dsn not specified")
	}

	db, err := GetDB(dsn)
	if err != nil {
		return errors.Wrapf(err, "error opening database: %s", redact(dsn))
	}
	defer db.Close()

	slog.Debug("ensuring db schema", "dsn", redact(dsn))
	b, err := f.ReadFile("sql/ddl.sql")
	if err != nil {
		return errors.Wrap(err, "failed to read the schema creation file")
	}
	if _, err := db.Exec(string(b)); err != nil {
		return errors.Wrapf(err, "failed to create database schema in: %s", redact(dsn))
	}

	state, err := GetDataState(db)
	if err != nil {
		return err
	}
	if state["use_case"] > 0 || state["plan"] > 0 {
		slog.Debug("db already seeded", "use_cases", state["use_case"])
		return nil
	}

	if err := seed(context.Background(), db, driverName(dsn), ReferenceDocument()); err != nil {
		return errors.Wrapf(err, "failed to seed database: %s", redact(dsn))
	}
	slog.Debug("db seeded", "dsn", redact(dsn))
	return nil
}

// GetDB opens the database behind dsn without touching the schema.
func GetDB(dsn string) (*sql.DB, error) {
	driver := driverName(dsn)
	conn := dsn
	if driver == driverSQLite {
		conn = strings.TrimPrefix(dsn, sqlitePrefix)
	}

	db, err := sql.Open(driver, conn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", redact(dsn))
	}
	return db, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func driverName(dsn string) string {
	if isPostgres(strings.ToLower(dsn)) {
		return driverPostgres
	}
	return driverSQLite
}

// rebind converts ? placeholders into $n for postgres.
func rebind(driver, query string) string {
	if driver != driverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
