package journal

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore persists entries in the journal_entries table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the schema on db and wraps it.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return &GormStore{db: db}, nil
}

func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}
	return NewGormStore(db)
}

func (g *GormStore) Record(ctx context.Context, e Entry) error {
	e.ID = 0
	if err := g.db.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}
	return nil
}

func (g *GormStore) Recent(ctx context.Context, session string, limit int) ([]Entry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	var out []Entry
	err := g.db.WithContext(ctx).
		Where("session = ?", session).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Open returns a postgres store when dsn is set and a memory store otherwise.
func Open(dsn string, size int) (Store, error) {
	if dsn == "" {
		return NewMemoryStore(size), nil
	}
	return OpenPostgres(dsn)
}
