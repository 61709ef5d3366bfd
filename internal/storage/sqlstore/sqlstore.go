// Package sqlstore - хранилище на database/sql для MySQL и SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"printshop/internal/config"
	"printshop/internal/storage"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Storage struct {
	db     *sql.DB
	driver string
}

// New открывает базу по конфигу. SQLite открывается в режиме WAL.
func New(cfg config.Config) (*Storage, error) {
	const op = "storage.sqlstore.New"

	var dsn string
	switch cfg.DBDriver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
		mc.DBName = cfg.DBName
		mc.ParseTime = cfg.ParseTime
		// RowsAffected считает совпавшие строки, а не изменённые
		mc.ClientFoundRows = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		dsn = mc.FormatDSN()
	case DriverSQLite:
		dsn = cfg.SQLitePath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	default:
		return nil, fmt.Errorf("%s: unsupported driver %q", op, cfg.DBDriver)
	}

	s, err := Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func Open(driver, dsn string) (*Storage, error) {
	const op = "storage.sqlstore.Open"

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if driver == DriverSQLite {
		// один писатель, иначе SQLITE_BUSY под нагрузкой
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &Storage{db: db, driver: driver}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Migrate создаёт таблицы, если их ещё нет.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.sqlstore.Migrate"

	version := 0
	// на пустой базе таблицы ещё нет, ошибка означает версию 0
	_ = s.db.QueryRowContext(ctx, `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1`).Scan(&version)
	if version >= schemaVersion {
		return nil
	}

	schema := schemaMySQL
	if s.driver == DriverSQLite {
		schema = schemaSQLite
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
		return fmt.Errorf("%s: save version: %w", op, err)
	}

	return nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// mapErr переводит нарушение уникальности в storage.ErrDuplicate.
func mapErr(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, myErr.Message)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", storage.ErrDuplicate, liteErr.Error())
		}
	}

	return err
}

// mustAffect возвращает notFound, если запрос не задел ни одной строки.
func mustAffect(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
