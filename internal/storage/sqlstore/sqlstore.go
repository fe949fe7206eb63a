// Package sqlstore keeps cart documents in the cart_documents table.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jravahfoods/storefront/internal/storage"
	"github.com/jravahfoods/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is a Backend over gorm.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var (
	_ storage.Backend = (*Store)(nil)
	_ storage.Pinger  = (*Store)(nil)
)

func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	var doc models.CartDocument
	err := s.db.WithContext(ctx).Where(&models.CartDocument{Key: key}).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select cart document %s: %w", key, err)
	}
	return doc.Body, nil
}

// Write upserts the document.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	doc := models.CartDocument{
		Key:       key,
		Body:      append([]byte(nil), data...),
		UpdatedAt: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&doc).Error
	if err != nil {
		return fmt.Errorf("upsert cart document %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
