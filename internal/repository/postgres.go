package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/lib/pq"

	"github.com/Siddarth2230/shortlink/internal/models"
)

const backendPostgres = "postgres"

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS links (
    code       VARCHAR(16) PRIMARY KEY,
    target_url TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore is a LinkStore over database/sql. It works with either the
// lib/pq ("postgres") or pgx ("pgx") driver; the primary key on code makes
// Put atomic.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens and pings a database with the named driver.
func OpenPostgres(ctx context.Context, driver, dsn string) (*PostgresStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return NewPostgresStore(db), nil
}

// Migrate creates the links table if it does not exist.
func (r *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create links table: %w", err)
	}
	return nil
}

// Put inserts link; the primary key turns a taken code into ErrDuplicateCode.
func (r *PostgresStore) Put(ctx context.Context, link *models.Link) error {
	defer observe(backendPostgres, "put", time.Now())

	query := `
        INSERT INTO links (code, target_url, created_at)
        VALUES ($1, $2, $3)
    `
	if _, err := r.db.ExecContext(ctx, query, link.Code, link.TargetURL, link.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		log.Printf("Error saving link %s: %v", link.Code, err)
		return err
	}
	return nil
}

// Get loads the link for code, or ErrNotFound.
func (r *PostgresStore) Get(ctx context.Context, code string) (*models.Link, error) {
	defer observe(backendPostgres, "get", time.Now())

	query := `
        SELECT code, target_url, created_at
        FROM links
        WHERE code = $1
    `
	var l models.Link
	err := r.db.QueryRowContext(ctx, query, code).Scan(&l.Code, &l.TargetURL, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("Error finding link by code %s: %v", code, err)
		return nil, err
	}
	return &l, nil
}

// Exists reports whether code is taken.
func (r *PostgresStore) Exists(ctx context.Context, code string) (bool, error) {
	defer observe(backendPostgres, "exists", time.Now())

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE code = $1)`
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		log.Printf("Error checking if code %s exists: %v", code, err)
		return false, err
	}
	return exists, nil
}

// Close closes the connection pool.
func (r *PostgresStore) Close() error {
	return r.db.Close()
}

// isUniqueViolation recognises duplicate-key errors from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
