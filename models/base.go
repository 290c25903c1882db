package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportBase carries the fields every field record shares. Synced stays false
// until the record has been transmitted to the regional office system.
type ReportBase struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"            json:"id"`
	Timestamp JSONTime  `gorm:"column:timestamp;not null;index" json:"timestamp"`
	Synced    bool      `gorm:"column:synced;default:false"     json:"synced"`
}

// Base lets generic store code reach the shared fields of any record.
func (b *ReportBase) Base() *ReportBase { return b }

func (b *ReportBase) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if time.Time(b.Timestamp).IsZero() {
		b.Timestamp = JSONTime(time.Now().UTC())
	}
	return nil
}
