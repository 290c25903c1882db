// Package store provides the category-scoped record operations every form
// screen writes through. Each record category is one table; mutations are
// synchronous write-through, so once a call returns the row is durable.
package store

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/martindev-ke/fieldops/models"
)

// Record is any model embedding models.ReportBase.
type Record interface {
	Base() *models.ReportBase
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

// List loads a category into dest (a pointer to a slice of records), newest
// first. Unreadable state is treated as an empty collection rather than an
// error so the forms stay usable offline.
func (s *Store) List(dest interface{}) {
	if err := s.db.Order("timestamp DESC").Find(dest).Error; err != nil {
		log.Printf("store: list %T: %v (treating as empty)", dest, err)
	}
}

// Append persists a new record, assigning its id, creation timestamp and
// sync flag. The caller's record is updated in place.
func (s *Store) Append(rec Record) error {
	base := rec.Base()
	base.ID = uuid.New()
	base.Timestamp = models.JSONTime(time.Now().UTC())
	base.Synced = false
	return s.db.Create(rec).Error
}

// Get loads one record of the model's category by id.
func (s *Store) Get(dest Record, id uuid.UUID) error {
	return s.db.First(dest, "id = ?", id).Error
}

// Update merges patch fields into the record identified by id. The shared
// base fields are not patchable.
func (s *Store) Update(model Record, id uuid.UUID, patch map[string]interface{}) error {
	delete(patch, "id")
	delete(patch, "timestamp")
	delete(patch, "synced")
	res := s.db.Model(model).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Save writes back a record previously loaded with Get.
func (s *Store) Save(rec Record) error {
	return s.db.Save(rec).Error
}

// Remove deletes the record by id.
func (s *Store) Remove(model Record, id uuid.UUID) error {
	res := s.db.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Replace swaps the entire category for recs in one transaction. Used by the
// debt-list import, which replaces rather than merges.
func (s *Store) Replace(model Record, recs interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return err
		}
		return tx.Create(recs).Error
	})
}

// MarkSynced flags the given records as transmitted.
func (s *Store) MarkSynced(model Record, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.Model(model).Where("id IN ?", ids).Update("synced", true).Error
}

// PendingSyncCount reports how many records of the category still await
// transmission.
func (s *Store) PendingSyncCount(model Record) int64 {
	var n int64
	if err := s.db.Model(model).Where("synced = ?", false).Count(&n).Error; err != nil {
		log.Printf("store: pending sync count %T: %v", model, err)
		return 0
	}
	return n
}
