// Package dbstore implements a Store backed by a GORM database. Each
// category save replaces the category's rows inside one transaction.
package dbstore

import (
	"context"
	"fmt"

	"github.com/volumetricpixels/questy/model"
	"github.com/volumetricpixels/questy/store"
	"gorm.io/gorm"
)

// Store persists progress documents as ProgressRecord rows.
type Store struct {
	db *gorm.DB
}

// New creates a database-backed Store. The ProgressRecord table must have
// been migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveCurrent(ctx context.Context, data store.Data) error {
	return s.save(ctx, model.CategoryCurrent, data)
}

func (s *Store) LoadCurrent(ctx context.Context) (store.Data, error) {
	return s.load(ctx, model.CategoryCurrent)
}

func (s *Store) SaveCompleted(ctx context.Context, data store.Data) error {
	return s.save(ctx, model.CategoryCompleted, data)
}

func (s *Store) LoadCompleted(ctx context.Context) (store.Data, error) {
	return s.load(ctx, model.CategoryCompleted)
}

func (s *Store) save(ctx context.Context, category string, data store.Data) error {
	rows := make([]model.ProgressRecord, 0)
	for quester, quests := range data {
		for name, blob := range quests {
			rows = append(rows, model.ProgressRecord{
				Category:  category,
				Quester:   quester,
				QuestName: name,
				Blob:      blob,
			})
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category = ?", category).Delete(&model.ProgressRecord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("store: save %s: %w", category, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, category string) (store.Data, error) {
	var rows []model.ProgressRecord
	if err := s.db.WithContext(ctx).Where("category = ?", category).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: load %s: %w", category, err)
	}
	data := store.Data{}
	for _, row := range rows {
		if data[row.Quester] == nil {
			data[row.Quester] = make(map[string]string)
		}
		data[row.Quester][row.QuestName] = row.Blob
	}
	return data, nil
}
