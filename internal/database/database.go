package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Querier is the common subset of *sql.DB and *sql.Tx.
// Helpers that take a Querier can run in or out of a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Open creates and configures the MySQL connection pool for dsn.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("Database connection pool established")
	return db, nil
}

// NextCode returns the next human-readable code for table, e.g. "SX-0001".
// Call it inside the transaction that inserts the row; the code columns are
// unique so a concurrent collision fails the insert instead of duplicating.
func NextCode(ctx context.Context, q Querier, table, prefix string) (string, error) {
	var count int
	// table is always one of our own constants, never user input.
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return "", fmt.Errorf("count %s: %w", table, err)
	}
	return FormatCode(prefix, count+1), nil
}

// FormatCode pads n to four digits: FormatCode("PAY", 7) == "PAY-0007".
func FormatCode(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}
