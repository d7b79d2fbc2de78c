package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the relational row backing one document.
type Record struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"uniqueIndex:idx_collection_doc;not null"`
	DocID      string `gorm:"uniqueIndex:idx_collection_doc;not null"`
	Data       string `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName keeps the table name stable across dialects.
func (Record) TableName() string { return "documents" }

// GormStore implements Store on top of a relational database via GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the documents table and returns a ready store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) List(ctx context.Context, collection string) ([]Document, error) {
	var records []Record
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(records))
	for _, r := range records {
		data, err := decodeData(r.Data)
		if err != nil {
			return nil, fmt.Errorf("decode document %s/%s: %w", collection, r.DocID, err)
		}
		docs = append(docs, Document{ID: r.DocID, Data: data})
	}
	return docs, nil
}

func (s *GormStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var r Record
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}

	data, err := decodeData(r.Data)
	if err != nil {
		return Document{}, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return Document{ID: r.DocID, Data: data}, nil
}

func (s *GormStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}

	record := Record{Collection: collection, DocID: id, Data: string(encoded)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *GormStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r Record
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&r).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		data, err := decodeData(r.Data)
		if err != nil {
			return fmt.Errorf("decode document %s/%s: %w", collection, id, err)
		}
		for k, v := range partial {
			data[k] = v
		}

		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
		}
		return tx.Model(&Record{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("data", string(encoded)).Error
	})
}

func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&Record{}).Error
}

func decodeData(raw string) (map[string]any, error) {
	data := map[string]any{}
	if raw == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}
