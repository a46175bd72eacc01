package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storeRecord - строка таблицы store_records
type storeRecord struct {
	ID         uint      `gorm:"primaryKey"`
	Collection string    `gorm:"size:64;not null;uniqueIndex:idx_store_records_key"`
	Name       string    `gorm:"size:255;not null;uniqueIndex:idx_store_records_key"`
	Payload    []byte    `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (storeRecord) TableName() string { return "store_records" }

// GormStore хранит записи в Postgres
type GormStore struct {
	db *gorm.DB
}

// OpenPostgres подключается к базе и создает таблицу при необходимости
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewGormStore(db)
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&storeRecord{}); err != nil {
		return nil, fmt.Errorf("migrate store_records: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Save(ctx context.Context, c Collection, data any, name string) (string, error) {
	name, err := resolveName(c, name)
	if err != nil {
		return "", err
	}

	body, err := c.Encode(data)
	if err != nil {
		return "", err
	}

	rec := storeRecord{
		Collection: c.Name(),
		Name:       name,
		Payload:    body,
		UpdatedAt:  time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&rec).Error
	if err != nil {
		return "", fmt.Errorf("save %s/%s: %w", c.Name(), name, err)
	}

	return name, nil
}

func (s *GormStore) Load(ctx context.Context, c Collection, name string) (any, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var rec storeRecord
	err := s.db.WithContext(ctx).
		Where(&storeRecord{Collection: c.Name(), Name: name}).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, c.Name(), name)
		}
		return nil, err
	}

	return c.Decode(rec.Payload)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
