package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite" // Pure go SQLite driver
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Siddarth2230/shortlink/internal/models"
)

const backendSQLite = "sqlite"

// GormStore is a LinkStore backed by GORM. Open it with OpenSQLite for a
// single-node file database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	return NewGormStore(db), nil
}

// Migrate creates or updates the links table.
func (r *GormStore) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&models.Link{})
}

// Put inserts the link unless the code is taken. The conflict clause turns a
// duplicate into zero affected rows instead of a driver-specific error.
func (r *GormStore) Put(ctx context.Context, link *models.Link) error {
	defer observe(backendSQLite, "put", time.Now())

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateCode
	}
	return nil
}

// Get loads the link for code, or ErrNotFound.
func (r *GormStore) Get(ctx context.Context, code string) (*models.Link, error) {
	defer observe(backendSQLite, "get", time.Now())

	var l models.Link
	// Find instead of First: a miss is routine here and should not be logged
	// as a record-not-found error.
	res := r.db.WithContext(ctx).Where("code = ?", code).Limit(1).Find(&l)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &l, nil
}

// Exists reports whether code is taken.
func (r *GormStore) Exists(ctx context.Context, code string) (bool, error) {
	defer observe(backendSQLite, "exists", time.Now())

	var n int64
	err := r.db.WithContext(ctx).Model(&models.Link{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}

// Close closes the underlying database handle.
func (r *GormStore) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
