package repository

import (
	"context"
	"fmt"
)

// Options selects and configures a LinkStore backend.
type Options struct {
	Driver  string // memory, postgres, pgx or sqlite
	DSN     string // connection string, or file path for sqlite
	Journal string // memory only; empty keeps links in RAM
}

// Migrator is implemented by stores that own a schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Open builds the store named by opts.Driver.
func Open(ctx context.Context, opts Options) (LinkStore, error) {
	switch opts.Driver {
	case "", "memory":
		s, err := OpenMemoryStore(opts.Journal)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres", "pgx":
		s, err := OpenPostgres(ctx, opts.Driver, opts.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := OpenSQLite(opts.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
